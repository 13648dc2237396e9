// internal/dispatch/dispatcher.go
package dispatch

import (
	"fmt"
	"log"
	"strings"

	"github.com/chaincast/chaincast-backend/internal/model"
	"github.com/chaincast/chaincast-backend/internal/telegram"
)

// LinkWriter records per-community delivery outcomes.
type LinkWriter interface {
	MarkDelivery(announcementID, communityID int, delivered bool, deliveryLog string) error
}

// DeliveryResult is the outcome of one community send.
type DeliveryResult struct {
	CommunityID   int    `json:"community_id"`
	CommunityName string `json:"community_name"`
	Success       bool   `json:"success"`
	MessageID     int    `json:"message_id,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Summary aggregates a dispatch run: "N of M succeeded".
type Summary struct {
	Sent    int              `json:"sent"`
	Failed  int              `json:"failed"`
	Skipped int              `json:"skipped"`
	Results []DeliveryResult `json:"results"`
}

type Dispatcher struct {
	Bot   telegram.BotAPI
	Links LinkWriter
}

// Dispatch sends the announcement to each target community sequentially,
// one at a time, recording the outcome on the announcement-community link.
// Communities on platforms without a sender yet are skipped.
func (d *Dispatcher) Dispatch(a *model.Announcement, communities []*model.Community) *Summary {
	summary := &Summary{Results: []DeliveryResult{}}
	text := RenderMessage(a)

	var button *telegram.Button
	if a.CTAURL != "" {
		label := a.CTAText
		if label == "" {
			label = "Learn more"
		}
		button = &telegram.Button{Text: label, URL: a.CTAURL}
	}

	for _, community := range communities {
		if community.Platform != model.PlatformTelegram {
			summary.Skipped++
			continue
		}

		result := DeliveryResult{CommunityID: community.ID, CommunityName: community.Name}

		messageID, err := d.send(community.ChatID, text, button, a.MediaURLs)
		if err != nil {
			result.Error = err.Error()
			summary.Failed++
			if markErr := d.Links.MarkDelivery(a.ID, community.ID, false, "send failed: "+err.Error()); markErr != nil {
				log.Println("⚠️ failed to record delivery failure:", markErr)
			}
		} else {
			result.Success = true
			result.MessageID = messageID
			summary.Sent++
			if markErr := d.Links.MarkDelivery(a.ID, community.ID, true, fmt.Sprintf("delivered message %d", messageID)); markErr != nil {
				log.Println("⚠️ failed to record delivery:", markErr)
			}
		}
		summary.Results = append(summary.Results, result)
	}

	log.Printf("📨 Dispatched announcement %d: %d sent, %d failed, %d skipped\n",
		a.ID, summary.Sent, summary.Failed, summary.Skipped)
	return summary
}

func (d *Dispatcher) send(chatID, text string, button *telegram.Button, mediaURLs []string) (int, error) {
	if chatID == "" {
		return 0, fmt.Errorf("community has no chat identifier")
	}

	if len(mediaURLs) == 0 {
		return d.Bot.SendMessage(chatID, text, button)
	}

	primary := mediaURLs[0]
	var messageID int
	var err error
	if mediaKind(primary) == "video" {
		messageID, err = d.Bot.SendVideo(chatID, primary, text, button)
	} else {
		messageID, err = d.Bot.SendPhoto(chatID, primary, text, button)
	}
	if err != nil {
		return 0, err
	}

	// Supplementary media goes out best-effort: a failure here does not fail
	// the primary send.
	if rest := mediaURLs[1:]; len(rest) > 0 {
		items := make([]telegram.MediaItem, 0, len(rest))
		for _, url := range rest {
			items = append(items, telegram.MediaItem{URL: url, Kind: mediaKind(url)})
		}
		if err := d.Bot.SendMediaGroup(chatID, items); err != nil {
			log.Println("⚠️ supplementary media group failed:", err)
		}
	}

	return messageID, nil
}

// RenderMessage builds the Telegram Markdown body for an announcement.
func RenderMessage(a *model.Announcement) string {
	var b strings.Builder
	b.WriteString("*")
	b.WriteString(telegram.EscapeMarkdown(a.Title))
	b.WriteString("*\n\n")
	b.WriteString(telegram.EscapeMarkdown(a.Content))
	return b.String()
}

func mediaKind(url string) string {
	lower := strings.ToLower(url)
	if i := strings.IndexAny(lower, "?#"); i >= 0 {
		lower = lower[:i]
	}
	for _, ext := range []string{".mp4", ".mov", ".webm", ".mkv"} {
		if strings.HasSuffix(lower, ext) {
			return "video"
		}
	}
	return "photo"
}
