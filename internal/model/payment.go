// internal/model/payment.go
package model

import "time"

type Payment struct {
	ID               int        `db:"id" json:"id"`
	AnnouncementID   int        `db:"announcement_id" json:"announcement_id"`
	UserID           int        `db:"user_id" json:"user_id"`
	Amount           float64    `db:"amount" json:"amount"`
	Currency         string     `db:"currency" json:"currency"`
	Status           string     `db:"status" json:"status"` // pending, paid, failed
	TxHash           string     `db:"tx_hash" json:"tx_hash,omitempty"`
	GatewaySessionID string     `db:"gateway_session_id" json:"gateway_session_id,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// CommunityEarning is one community's share of a paid announcement. Rows are
// created once per payment when it reaches paid.
type CommunityEarning struct {
	ID          int       `db:"id" json:"id"`
	CommunityID int       `db:"community_id" json:"community_id"`
	PaymentID   int       `db:"payment_id" json:"payment_id"`
	Amount      float64   `db:"amount" json:"amount"`
	Currency    string    `db:"currency" json:"currency"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
