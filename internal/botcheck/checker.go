// internal/botcheck/checker.go
package botcheck

import (
	"fmt"
	"log"

	"github.com/chaincast/chaincast-backend/internal/model"
	"github.com/chaincast/chaincast-backend/internal/telegram"
)

// CommunityWriter is the slice of the community repository the checker needs
// for its opportunistic corrections.
type CommunityWriter interface {
	UpdateChatID(id int, chatID string) error
	UpdateReach(id int, reach int) error
}

// Status reports whether the distribution bot can reach a community. Expected
// negative outcomes (chat not found, bot absent) land in Error, never in the
// returned error.
type Status struct {
	BotAdded    bool   `json:"bot_added"`
	IsAdmin     bool   `json:"is_admin"`
	MemberCount int    `json:"member_count,omitempty"`
	InviteLink  string `json:"invite_link,omitempty"`
	ChatID      string `json:"chat_id,omitempty"`
	Error       string `json:"error,omitempty"`
}

type Checker struct {
	Bot         telegram.BotAPI
	Communities CommunityWriter
}

// CheckStatus resolves the community's chat via the candidate identifier
// shapes, then probes the bot's own membership. The first identifier that
// resolves is written back onto the community record when it differs from the
// stored one.
func (c *Checker) CheckStatus(community *model.Community) (*Status, error) {
	if community.ChatID == "" {
		return &Status{Error: "community has no chat identifier"}, nil
	}

	var chat *telegram.Chat
	var used string
	var lastErr error
	for _, candidate := range ChatIDCandidates(community.ChatID) {
		found, err := c.Bot.GetChat(candidate)
		if err != nil {
			lastErr = err
			continue
		}
		chat = found
		used = candidate
		break
	}

	if chat == nil {
		return &Status{
			BotAdded: false,
			Error:    fmt.Sprintf("chat not found for %q: %v", community.ChatID, lastErr),
		}, nil
	}

	if used != community.ChatID {
		if err := c.Communities.UpdateChatID(community.ID, used); err != nil {
			log.Println("⚠️ failed to persist corrected chat ID:", err)
		}
	}

	status := &Status{ChatID: used, InviteLink: chat.InviteLink}

	memberStatus, err := c.Bot.GetChatMember(used, c.Bot.BotID())
	if err != nil {
		status.Error = fmt.Sprintf("bot is not in the chat: %v", err)
		return status, nil
	}
	status.BotAdded = true
	status.IsAdmin = memberStatus == "administrator" || memberStatus == "creator"

	// Side-effecting read: refresh the community's reach while we're here.
	if count, err := c.Bot.GetChatMemberCount(used); err == nil && count > 0 {
		status.MemberCount = count
		if err := c.Communities.UpdateReach(community.ID, count); err != nil {
			log.Println("⚠️ failed to update community reach:", err)
		}
	}

	return status, nil
}
