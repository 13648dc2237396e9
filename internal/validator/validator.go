// internal/validator/validator.go
package validator

import (
	"fmt"
	"log"
	"strings"

	"github.com/chaincast/chaincast-backend/internal/model"
)

const (
	minTitleLength   = 10
	minContentLength = 50

	rejectedScore      = 0.4
	heuristicPassScore = 0.7
	defaultValidScore  = 0.7
	defaultRejectScore = 0.6
)

// BannedTerms trips the local heuristic on a case-insensitive substring match
// anywhere in title or content.
var BannedTerms = []string{
	"guaranteed returns",
	"risk-free",
	"get rich quick",
	"pump and dump",
	"ponzi",
	"pyramid scheme",
	"100x gains",
	"insider info",
}

type Validator struct {
	AI          AIClient
	BannedTerms []string
}

func New(ai AIClient) *Validator {
	return &Validator{AI: ai, BannedTerms: BannedTerms}
}

// Validate runs the local heuristic first and only consults the AI scorer
// when it passes. A failing AI call degrades to the heuristic result instead
// of failing the operation.
func (v *Validator) Validate(title, content string) *model.Verdict {
	if issues := v.localIssues(title, content); len(issues) > 0 {
		return &model.Verdict{
			Valid:  false,
			Score:  rejectedScore,
			Issues: issues,
		}
	}

	resp, err := v.AI.Validate(title, content)
	if err != nil {
		log.Println("⚠️ AI validation unavailable, falling back to heuristic result:", err)
		return &model.Verdict{
			Valid:    true,
			Score:    heuristicPassScore,
			Issues:   []string{},
			Feedback: "Automated review was unavailable; basic checks passed.",
		}
	}

	verdict := &model.Verdict{
		Valid:    resp.IsValid,
		Issues:   resp.Issues,
		Feedback: resp.Feedback,
	}
	if verdict.Issues == nil {
		verdict.Issues = []string{}
	}
	if resp.Score != nil {
		verdict.Score = *resp.Score
	} else if resp.IsValid {
		verdict.Score = defaultValidScore
	} else {
		verdict.Score = defaultRejectScore
	}
	if len(resp.Factors) > 0 {
		verdict.Factors = &model.FactorScores{
			Length:     resp.Factors["length"],
			Clarity:    resp.Factors["clarity"],
			Relevance:  resp.Factors["relevance"],
			Engagement: resp.Factors["engagement"],
			Compliance: resp.Factors["compliance"],
		}
	}
	return verdict
}

func (v *Validator) localIssues(title, content string) []string {
	issues := []string{}
	if len(title) < minTitleLength {
		issues = append(issues, fmt.Sprintf("Title is too short (minimum %d characters)", minTitleLength))
	}
	if len(content) < minContentLength {
		issues = append(issues, fmt.Sprintf("Content is too short (minimum %d characters)", minContentLength))
	}

	combined := strings.ToLower(title + " " + content)
	terms := v.BannedTerms
	if terms == nil {
		terms = BannedTerms
	}
	for _, term := range terms {
		if strings.Contains(combined, strings.ToLower(term)) {
			issues = append(issues, fmt.Sprintf("Contains prohibited term: %q", term))
		}
	}
	return issues
}

// EnhanceResult is the AI rewrite of an announcement.
type EnhanceResult struct {
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Improvements []string `json:"improvements"`
}

// Enhance delegates to the AI rewrite endpoint. There is no safe heuristic
// rewrite, so a failing call propagates to the caller.
func (v *Validator) Enhance(title, content string) (*EnhanceResult, error) {
	resp, err := v.AI.Enhance(title, content)
	if err != nil {
		return nil, fmt.Errorf("enhancement failed: %w", err)
	}
	return &EnhanceResult{
		Title:        resp.EnhancedTitle,
		Content:      resp.EnhancedContent,
		Improvements: resp.Improvements,
	}, nil
}

var genericSuggestions = []string{
	"Add specific details about what your project offers",
	"Include a clear call to action for readers",
	"Mention dates, numbers or milestones to build credibility",
	"Keep the tone informative rather than promotional",
}

// SuggestionsFrom derives actionable suggestions from a verdict. Exactly one
// non-empty list is returned: the verdict's own suggestions, else one entry
// per issue, else one entry per weak factor score, else the generic set.
func SuggestionsFrom(verdict *model.Verdict) []string {
	if verdict == nil {
		return genericSuggestions
	}
	if len(verdict.Suggestions) > 0 {
		return verdict.Suggestions
	}
	if len(verdict.Issues) > 0 {
		suggestions := make([]string, 0, len(verdict.Issues))
		for _, issue := range verdict.Issues {
			suggestions = append(suggestions, "Fix issue: "+issue)
		}
		return suggestions
	}
	if f := verdict.Factors; f != nil {
		suggestions := []string{}
		if f.Length < 0.7 {
			suggestions = append(suggestions, "Adjust the length of your title and content")
		}
		if f.Clarity < 0.7 {
			suggestions = append(suggestions, "Make the wording clearer and easier to follow")
		}
		if f.Relevance < 0.6 {
			suggestions = append(suggestions, "Tie the announcement more closely to your audience's interests")
		}
		if f.Engagement < 0.6 {
			suggestions = append(suggestions, "Add a hook or question to draw readers in")
		}
		if f.Compliance < 1.0 {
			suggestions = append(suggestions, "Review the content against the platform's content policy")
		}
		if len(suggestions) > 0 {
			return suggestions
		}
	}
	return genericSuggestions
}
