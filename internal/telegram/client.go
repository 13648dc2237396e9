// internal/telegram/client.go
package telegram

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Chat is the subset of chat info the checker and dispatcher care about.
type Chat struct {
	ID         int64
	Title      string
	Username   string
	Type       string
	InviteLink string
}

// Button is an inline URL button appended below a message.
type Button struct {
	Text string
	URL  string
}

// MediaItem is one media attachment, sent by URL.
type MediaItem struct {
	URL  string
	Kind string // "photo" or "video"
}

// BotAPI is the slice of the Telegram Bot API the service consumes. Chat
// identifiers are passed as strings: numeric or "-"-prefixed values are direct
// chat IDs, "@"-prefixed values are public usernames.
type BotAPI interface {
	BotID() int64
	GetChat(chatID string) (*Chat, error)
	GetChatMember(chatID string, userID int64) (string, error)
	GetChatMemberCount(chatID string) (int, error)
	SendMessage(chatID, text string, button *Button) (int, error)
	SendPhoto(chatID, fileURL, caption string, button *Button) (int, error)
	SendVideo(chatID, fileURL, caption string, button *Button) (int, error)
	SendMediaGroup(chatID string, items []MediaItem) error
}

// Client wraps tgbotapi behind BotAPI.
type Client struct {
	Bot *tgbotapi.BotAPI
}

func NewClient(token string) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Client{Bot: bot}, nil
}

func (c *Client) BotID() int64 {
	return c.Bot.Self.ID
}

func chatConfig(chatID string) tgbotapi.ChatConfig {
	if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		return tgbotapi.ChatConfig{ChatID: id}
	}
	return tgbotapi.ChatConfig{SuperGroupUsername: chatID}
}

func baseChat(chatID string) tgbotapi.BaseChat {
	if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		return tgbotapi.BaseChat{ChatID: id}
	}
	return tgbotapi.BaseChat{ChannelUsername: chatID}
}

func (c *Client) GetChat(chatID string) (*Chat, error) {
	chat, err := c.Bot.GetChat(tgbotapi.ChatInfoConfig{ChatConfig: chatConfig(chatID)})
	if err != nil {
		return nil, err
	}
	return &Chat{
		ID:         chat.ID,
		Title:      chat.Title,
		Username:   chat.UserName,
		Type:       chat.Type,
		InviteLink: chat.InviteLink,
	}, nil
}

func (c *Client) GetChatMember(chatID string, userID int64) (string, error) {
	cfg := chatConfig(chatID)
	member, err := c.Bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID:             cfg.ChatID,
			SuperGroupUsername: cfg.SuperGroupUsername,
			UserID:             userID,
		},
	})
	if err != nil {
		return "", err
	}
	return member.Status, nil
}

func (c *Client) GetChatMemberCount(chatID string) (int, error) {
	return c.Bot.GetChatMembersCount(tgbotapi.ChatMemberCountConfig{ChatConfig: chatConfig(chatID)})
}

func (c *Client) SendMessage(chatID, text string, button *Button) (int, error) {
	msg := tgbotapi.MessageConfig{
		BaseChat:              baseChat(chatID),
		Text:                  text,
		ParseMode:             tgbotapi.ModeMarkdown,
		DisableWebPagePreview: false,
	}
	if button != nil {
		msg.BaseChat.ReplyMarkup = inlineButton(button)
	}
	sent, err := c.Bot.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (c *Client) SendPhoto(chatID, fileURL, caption string, button *Button) (int, error) {
	photo := tgbotapi.PhotoConfig{
		BaseFile: tgbotapi.BaseFile{
			BaseChat: baseChat(chatID),
			File:     tgbotapi.FileURL(fileURL),
		},
		Caption:   caption,
		ParseMode: tgbotapi.ModeMarkdown,
	}
	if button != nil {
		photo.BaseChat.ReplyMarkup = inlineButton(button)
	}
	sent, err := c.Bot.Send(photo)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (c *Client) SendVideo(chatID, fileURL, caption string, button *Button) (int, error) {
	video := tgbotapi.VideoConfig{
		BaseFile: tgbotapi.BaseFile{
			BaseChat: baseChat(chatID),
			File:     tgbotapi.FileURL(fileURL),
		},
		Caption:   caption,
		ParseMode: tgbotapi.ModeMarkdown,
	}
	if button != nil {
		video.BaseChat.ReplyMarkup = inlineButton(button)
	}
	sent, err := c.Bot.Send(video)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (c *Client) SendMediaGroup(chatID string, items []MediaItem) error {
	media := make([]interface{}, 0, len(items))
	for _, item := range items {
		if item.Kind == "video" {
			media = append(media, tgbotapi.NewInputMediaVideo(tgbotapi.FileURL(item.URL)))
		} else {
			media = append(media, tgbotapi.NewInputMediaPhoto(tgbotapi.FileURL(item.URL)))
		}
	}
	group := tgbotapi.MediaGroupConfig{Media: media}
	if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		group.ChatID = id
	} else {
		group.ChannelUsername = chatID
	}
	_, err := c.Bot.SendMediaGroup(group)
	return err
}

func inlineButton(b *Button) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL),
		),
	)
}

// EscapeMarkdown escapes the characters Telegram's Markdown parser chokes on.
func EscapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"`", "\\`",
	)
	return replacer.Replace(text)
}

var _ BotAPI = (*Client)(nil)
