package repository

import (
	"database/sql"
	"fmt"

	"github.com/chaincast/chaincast-backend/internal/model"
)

type LinkRepositoryInterface interface {
	CreateLink(announcementID, communityID int) (*model.AnnouncementCommunity, error)
	GetLink(announcementID, communityID int) (*model.AnnouncementCommunity, error)
	ListByAnnouncement(announcementID int) ([]*model.AnnouncementCommunity, error)
	MarkDelivery(announcementID, communityID int, delivered bool, deliveryLog string) error
	TrackEvent(linkID int, event string) error
	GetDeliveryStats(announcementID int) (map[string]int, error)
}

type LinkRepository struct {
	DB *sql.DB
}

// ====================== Announcement-Community links ======================

// Idempotent insert: re-selecting the same community returns the existing link
func (r *LinkRepository) CreateLink(announcementID, communityID int) (*model.AnnouncementCommunity, error) {
	existing, err := r.GetLink(announcementID, communityID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	query := `
        INSERT INTO announcement_communities (announcement_id, community_id, delivered, views, clicks, created_at, updated_at)
        VALUES ($1, $2, false, 0, 0, NOW(), NOW())
        RETURNING id, delivered, views, clicks, created_at, updated_at
    `
	var link model.AnnouncementCommunity
	err = r.DB.QueryRow(query, announcementID, communityID).Scan(
		&link.ID, &link.Delivered, &link.Views, &link.Clicks, &link.CreatedAt, &link.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	link.AnnouncementID = announcementID
	link.CommunityID = communityID
	return &link, nil
}

func (r *LinkRepository) GetLink(announcementID, communityID int) (*model.AnnouncementCommunity, error) {
	query := `SELECT id, announcement_id, community_id, delivered, delivery_log, views, clicks, created_at, updated_at
              FROM announcement_communities
              WHERE announcement_id=$1 AND community_id=$2`
	var link model.AnnouncementCommunity
	err := r.DB.QueryRow(query, announcementID, communityID).Scan(
		&link.ID, &link.AnnouncementID, &link.CommunityID, &link.Delivered,
		&link.DeliveryLog, &link.Views, &link.Clicks,
		&link.CreatedAt, &link.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

func (r *LinkRepository) ListByAnnouncement(announcementID int) ([]*model.AnnouncementCommunity, error) {
	query := `SELECT id, announcement_id, community_id, delivered, delivery_log, views, clicks, created_at, updated_at
              FROM announcement_communities
              WHERE announcement_id=$1
              ORDER BY id`
	rows, err := r.DB.Query(query, announcementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []*model.AnnouncementCommunity{}
	for rows.Next() {
		link := &model.AnnouncementCommunity{}
		if err := rows.Scan(
			&link.ID, &link.AnnouncementID, &link.CommunityID, &link.Delivered,
			&link.DeliveryLog, &link.Views, &link.Clicks,
			&link.CreatedAt, &link.UpdatedAt,
		); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, nil
}

// MarkDelivery overwrites the delivery outcome; re-dispatch simply re-attempts
// and replaces the log.
func (r *LinkRepository) MarkDelivery(announcementID, communityID int, delivered bool, deliveryLog string) error {
	query := `UPDATE announcement_communities
              SET delivered=$1, delivery_log=$2, updated_at=NOW()
              WHERE announcement_id=$3 AND community_id=$4`
	_, err := r.DB.Exec(query, delivered, deliveryLog, announcementID, communityID)
	return err
}

func (r *LinkRepository) TrackEvent(linkID int, event string) error {
	var column string
	switch event {
	case "view":
		column = "views"
	case "click":
		column = "clicks"
	default:
		return fmt.Errorf("unknown tracking event: %s", event)
	}
	query := fmt.Sprintf(`UPDATE announcement_communities SET %s=%s+1, updated_at=NOW() WHERE id=$1`, column, column)
	_, err := r.DB.Exec(query, linkID)
	return err
}

// GetDeliveryStats buckets links by outcome: delivered, failed (attempted with
// an error logged) and pending (never attempted).
func (r *LinkRepository) GetDeliveryStats(announcementID int) (map[string]int, error) {
	query := `
        SELECT
            CASE
                WHEN delivered THEN 'delivered'
                WHEN delivery_log <> '' THEN 'failed'
                ELSE 'pending'
            END AS outcome,
            COUNT(*)
        FROM announcement_communities
        WHERE announcement_id=$1
        GROUP BY outcome
    `
	rows, err := r.DB.Query(query, announcementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := map[string]int{"delivered": 0, "failed": 0, "pending": 0}
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, err
		}
		stats[outcome] = count
	}
	return stats, nil
}

var _ LinkRepositoryInterface = (*LinkRepository)(nil)
