// internal/model/announcement_community.go
package model

import "time"

// AnnouncementCommunity links an announcement to one target community and
// records the per-community delivery outcome and engagement counters.
type AnnouncementCommunity struct {
	ID             int       `db:"id" json:"id"`
	AnnouncementID int       `db:"announcement_id" json:"announcement_id"`
	CommunityID    int       `db:"community_id" json:"community_id"`
	Delivered      bool      `db:"delivered" json:"delivered"`
	DeliveryLog    string    `db:"delivery_log" json:"delivery_log,omitempty"`
	Views          int       `db:"views" json:"views"`
	Clicks         int       `db:"clicks" json:"clicks"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
