package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	appErrors "github.com/chaincast/chaincast-backend/internal/errors"
	"github.com/chaincast/chaincast-backend/internal/model"
)

type AnnouncementRepositoryInterface interface {
	Create(a *model.Announcement) error
	GetByID(id int) (*model.Announcement, error)
	ListAnnouncements(offset, limit int, status string, ownerID int) ([]*model.Announcement, int, error)
	Update(a *model.Announcement) error
	UpdateStatus(id int, status string) error
	UpdatePaymentStatus(id int, paymentStatus string) error
	UpdateVerdict(id int, status string, verdict *model.Verdict) error
}

type AnnouncementRepository struct {
	DB *sql.DB
}

// ====================== Announcement CRUD ======================

func (r *AnnouncementRepository) Create(a *model.Announcement) error {
	a.CreatedAt = time.Now()
	if a.Status == "" {
		a.Status = model.StatusDraft
	}
	if a.PaymentStatus == "" {
		a.PaymentStatus = model.PaymentUnpaid
	}
	query := `
        INSERT INTO announcements (owner_id, title, content, cta_text, cta_url, media_urls, status, payment_status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `
	return r.DB.QueryRow(query,
		a.OwnerID, a.Title, a.Content, a.CTAText, a.CTAURL,
		pq.Array(a.MediaURLs), a.Status, a.PaymentStatus, a.CreatedAt,
	).Scan(&a.ID)
}

func (r *AnnouncementRepository) Update(a *model.Announcement) error {
	query := `
        UPDATE announcements
        SET title=$1, content=$2, cta_text=$3, cta_url=$4, media_urls=$5, status=$6, updated_at=NOW()
        WHERE id=$7
    `
	_, err := r.DB.Exec(query, a.Title, a.Content, a.CTAText, a.CTAURL, pq.Array(a.MediaURLs), a.Status, a.ID)
	return err
}

func (r *AnnouncementRepository) UpdateStatus(id int, status string) error {
	query := `UPDATE announcements SET status=$1, updated_at=$2 WHERE id=$3`
	_, err := r.DB.Exec(query, status, time.Now(), id)
	return err
}

func (r *AnnouncementRepository) UpdatePaymentStatus(id int, paymentStatus string) error {
	query := `UPDATE announcements SET payment_status=$1, updated_at=$2 WHERE id=$3`
	_, err := r.DB.Exec(query, paymentStatus, time.Now(), id)
	return err
}

// UpdateVerdict stores the validation verdict blob together with the status
// the verdict resolved to, in a single statement.
func (r *AnnouncementRepository) UpdateVerdict(id int, status string, verdict *model.Verdict) error {
	var blob []byte
	if verdict != nil {
		var err error
		blob, err = json.Marshal(verdict)
		if err != nil {
			return err
		}
	}
	query := `UPDATE announcements SET status=$1, verdict=$2, updated_at=NOW() WHERE id=$3`
	_, err := r.DB.Exec(query, status, blob, id)
	return err
}

func (r *AnnouncementRepository) GetByID(id int) (*model.Announcement, error) {
	query := `
        SELECT id, owner_id, title, content, cta_text, cta_url, media_urls, status, payment_status, verdict, created_at, updated_at
        FROM announcements WHERE id=$1
    `
	a, err := scanAnnouncement(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewAnnouncementNotFound(id)
		}
		return nil, err
	}
	return a, nil
}

func (r *AnnouncementRepository) ListAnnouncements(offset, limit int, status string, ownerID int) ([]*model.Announcement, int, error) {
	announcements := []*model.Announcement{}
	query := `SELECT id, owner_id, title, content, cta_text, cta_url, media_urls, status, payment_status, verdict, created_at, updated_at
              FROM announcements WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if status != "" {
		query += fmt.Sprintf(" AND status=$%d", argPos)
		args = append(args, status)
		argPos++
	}
	if ownerID > 0 {
		query += fmt.Sprintf(" AND owner_id=$%d", argPos)
		args = append(args, ownerID)
		argPos++
	}

	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, 0, err
		}
		announcements = append(announcements, a)
	}

	// Count total
	countQuery := `SELECT COUNT(*) FROM announcements WHERE 1=1`
	argsCount := []interface{}{}
	argPosCount := 1
	if status != "" {
		countQuery += fmt.Sprintf(" AND status=$%d", argPosCount)
		argsCount = append(argsCount, status)
		argPosCount++
	}
	if ownerID > 0 {
		countQuery += fmt.Sprintf(" AND owner_id=$%d", argPosCount)
		argsCount = append(argsCount, ownerID)
	}

	var total int
	if err := r.DB.QueryRow(countQuery, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return announcements, total, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAnnouncement(row rowScanner) (*model.Announcement, error) {
	var a model.Announcement
	var verdictBlob []byte
	err := row.Scan(
		&a.ID, &a.OwnerID, &a.Title, &a.Content, &a.CTAText, &a.CTAURL,
		pq.Array(&a.MediaURLs), &a.Status, &a.PaymentStatus, &verdictBlob,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(verdictBlob) > 0 {
		var v model.Verdict
		if err := json.Unmarshal(verdictBlob, &v); err != nil {
			return nil, err
		}
		a.Verdict = &v
	}
	return &a, nil
}

var _ AnnouncementRepositoryInterface = (*AnnouncementRepository)(nil)
