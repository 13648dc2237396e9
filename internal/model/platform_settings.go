// internal/model/platform_settings.go
package model

import "time"

// PlatformSettings is a singleton record managed by administrators.
type PlatformSettings struct {
	ID          int        `db:"id" json:"id"`
	PlatformFee float64    `db:"platform_fee" json:"platform_fee"`
	BotToken    string     `db:"bot_token" json:"-"`
	BotUsername string     `db:"bot_username" json:"bot_username,omitempty"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
