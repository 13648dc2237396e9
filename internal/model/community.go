// internal/model/community.go
package model

import "time"

// Distribution platforms
const (
	PlatformTelegram = "telegram"
	PlatformDiscord  = "discord"
	PlatformWhatsApp = "whatsapp"
)

// Community approval statuses
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

type Community struct {
	ID             int       `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Platform       string    `db:"platform" json:"platform"`
	ChatID         string    `db:"chat_id" json:"chat_id,omitempty"`
	Reach          int       `db:"reach" json:"reach"`
	Price          float64   `db:"price" json:"price"`
	OwnerID        int       `db:"owner_id" json:"owner_id"`
	ApprovalStatus string    `db:"approval_status" json:"approval_status"`
	WalletAddress  string    `db:"wallet_address" json:"wallet_address,omitempty"`
	Regions        []string  `db:"regions" json:"regions,omitempty"`
	FocusAreas     []string  `db:"focus_areas" json:"focus_areas,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
