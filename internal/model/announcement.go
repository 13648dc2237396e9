// internal/model/announcement.go
package model

import "time"

// Announcement lifecycle statuses
const (
	StatusDraft             = "draft"
	StatusPendingValidation = "pending_validation"
	StatusValidationFailed  = "validation_failed"
	StatusPendingApproval   = "pending_approval"
	StatusPublished         = "published"
	StatusRejected          = "rejected"
)

// Payment sub-statuses on the announcement
const (
	PaymentUnpaid  = "unpaid"
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentWaived  = "waived"
)

type Announcement struct {
	ID            int        `db:"id" json:"id"`
	OwnerID       int        `db:"owner_id" json:"owner_id"`
	Title         string     `db:"title" json:"title"`
	Content       string     `db:"content" json:"content"`
	CTAText       string     `db:"cta_text" json:"cta_text,omitempty"`
	CTAURL        string     `db:"cta_url" json:"cta_url,omitempty"`
	MediaURLs     []string   `db:"media_urls" json:"media_urls,omitempty"`
	Status        string     `db:"status" json:"status"`
	PaymentStatus string     `db:"payment_status" json:"payment_status"`
	Verdict       *Verdict   `db:"verdict" json:"verdict,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
