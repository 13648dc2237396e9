// internal/botcheck/normalize.go
package botcheck

import "strings"

var linkPrefixes = []string{
	"https://t.me/",
	"http://t.me/",
	"t.me/",
	"https://telegram.me/",
	"http://telegram.me/",
	"telegram.me/",
}

// extractFromLink pulls the trailing path segment out of a t.me-style URL.
// Returns "" when the value is not a recognized link.
func extractFromLink(raw string) string {
	lower := strings.ToLower(raw)
	for _, prefix := range linkPrefixes {
		if strings.HasPrefix(lower, prefix) {
			rest := raw[len(prefix):]
			if i := strings.IndexAny(rest, "?#"); i >= 0 {
				rest = rest[:i]
			}
			rest = strings.Trim(rest, "/")
			if i := strings.LastIndex(rest, "/"); i >= 0 {
				rest = rest[i+1:]
			}
			return rest
		}
	}
	return ""
}

func isNumeric(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NormalizeChatID maps a stored chat identifier to the preferred candidate:
// URLs collapse to their trailing segment, bare public usernames get an "@"
// prefix, numeric and "-"-prefixed values pass through. Idempotent.
func NormalizeChatID(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if extracted := extractFromLink(s); extracted != "" {
		s = extracted
	}
	if isNumeric(s) {
		return s
	}
	if strings.HasPrefix(s, "@") || strings.HasPrefix(s, "-") {
		return s
	}
	return "@" + s
}

// ChatIDCandidates returns the ordered, deduplicated list of identifier
// shapes to try against getChat, best guess first.
func ChatIDCandidates(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	primary := NormalizeChatID(trimmed)

	candidates := []string{primary}
	candidates = append(candidates, strings.TrimPrefix(primary, "@"))
	if !strings.HasPrefix(primary, "@") && !isNumeric(primary) {
		candidates = append(candidates, "@"+primary)
	}
	if strings.HasPrefix(primary, "-") {
		candidates = append(candidates, strings.TrimPrefix(primary, "-"))
	} else if isNumeric(primary) {
		candidates = append(candidates, "-"+primary)
	}
	if extracted := extractFromLink(trimmed); extracted != "" {
		candidates = append(candidates, "@"+extracted, extracted)
	}
	candidates = append(candidates, trimmed)

	seen := map[string]bool{}
	out := []string{}
	for _, c := range candidates {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
