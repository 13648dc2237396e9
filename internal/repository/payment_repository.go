package repository

import (
	"database/sql"
	"time"

	appErrors "github.com/chaincast/chaincast-backend/internal/errors"
	"github.com/chaincast/chaincast-backend/internal/model"
)

type PaymentRepositoryInterface interface {
	Create(p *model.Payment) error
	GetByID(id int) (*model.Payment, error)
	GetBySessionID(sessionID string) (*model.Payment, error)
	GetByAnnouncement(announcementID int) (*model.Payment, error)
	UpdateSessionID(id int, sessionID string) error
	MarkFailed(id int, reason string) error
	Confirm(p *model.Payment, txHash string, earnings []model.CommunityEarning) error
	ListPendingOlderThan(age time.Duration) ([]*model.Payment, error)
	ListEarningsByCommunity(communityID int) ([]model.CommunityEarning, error)
	ListEarningsByPayment(paymentID int) ([]model.CommunityEarning, error)
}

type PaymentRepository struct {
	DB *sql.DB
}

// ====================== Payments ======================

func (r *PaymentRepository) Create(p *model.Payment) error {
	p.CreatedAt = time.Now()
	if p.Status == "" {
		p.Status = "pending"
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}
	query := `
        INSERT INTO payments (announcement_id, user_id, amount, currency, status, tx_hash, gateway_session_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	return r.DB.QueryRow(query,
		p.AnnouncementID, p.UserID, p.Amount, p.Currency, p.Status, p.TxHash, p.GatewaySessionID, p.CreatedAt,
	).Scan(&p.ID)
}

func (r *PaymentRepository) GetByID(id int) (*model.Payment, error) {
	query := paymentSelect + ` WHERE id=$1`
	p, err := scanPayment(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewPaymentNotFound("by id")
		}
		return nil, err
	}
	return p, nil
}

func (r *PaymentRepository) GetBySessionID(sessionID string) (*model.Payment, error) {
	query := paymentSelect + ` WHERE gateway_session_id=$1`
	p, err := scanPayment(r.DB.QueryRow(query, sessionID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewPaymentNotFound(sessionID)
		}
		return nil, err
	}
	return p, nil
}

func (r *PaymentRepository) GetByAnnouncement(announcementID int) (*model.Payment, error) {
	query := paymentSelect + ` WHERE announcement_id=$1 ORDER BY id DESC LIMIT 1`
	p, err := scanPayment(r.DB.QueryRow(query, announcementID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *PaymentRepository) UpdateSessionID(id int, sessionID string) error {
	query := `UPDATE payments SET gateway_session_id=$1, updated_at=NOW() WHERE id=$2`
	_, err := r.DB.Exec(query, sessionID, id)
	return err
}

func (r *PaymentRepository) MarkFailed(id int, reason string) error {
	query := `UPDATE payments SET status='failed', tx_hash=$1, updated_at=NOW() WHERE id=$2`
	_, err := r.DB.Exec(query, reason, id)
	return err
}

// Confirm settles a payment in a single transaction: the payment row moves to
// paid, the announcement is published, and one earning row per linked
// community is inserted. Earnings insertion is guarded so a duplicate confirm
// call for the same payment cannot double-book.
func (r *PaymentRepository) Confirm(p *model.Payment, txHash string, earnings []model.CommunityEarning) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`UPDATE payments SET status='paid', tx_hash=$1, updated_at=NOW() WHERE id=$2`,
		txHash, p.ID,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(
		`UPDATE announcements SET status=$1, payment_status=$2, updated_at=NOW() WHERE id=$3`,
		model.StatusPublished, model.PaymentPaid, p.AnnouncementID,
	); err != nil {
		return err
	}

	var existing int
	if err := tx.QueryRow(
		`SELECT COUNT(*) FROM community_earnings WHERE payment_id=$1`, p.ID,
	).Scan(&existing); err != nil {
		return err
	}

	if existing == 0 {
		for _, e := range earnings {
			if _, err := tx.Exec(
				`INSERT INTO community_earnings (community_id, payment_id, amount, currency, created_at)
                 VALUES ($1, $2, $3, $4, NOW())`,
				e.CommunityID, p.ID, e.Amount, e.Currency,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func (r *PaymentRepository) ListPendingOlderThan(age time.Duration) ([]*model.Payment, error) {
	cutoff := time.Now().Add(-age)
	query := paymentSelect + ` WHERE status='pending' AND gateway_session_id <> '' AND created_at < $1 ORDER BY id`
	rows, err := r.DB.Query(query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []*model.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, nil
}

// ====================== Community earnings ======================

func (r *PaymentRepository) ListEarningsByCommunity(communityID int) ([]model.CommunityEarning, error) {
	query := `SELECT id, community_id, payment_id, amount, currency, created_at
              FROM community_earnings WHERE community_id=$1 ORDER BY id DESC`
	return r.listEarnings(query, communityID)
}

func (r *PaymentRepository) ListEarningsByPayment(paymentID int) ([]model.CommunityEarning, error) {
	query := `SELECT id, community_id, payment_id, amount, currency, created_at
              FROM community_earnings WHERE payment_id=$1 ORDER BY id`
	return r.listEarnings(query, paymentID)
}

func (r *PaymentRepository) listEarnings(query string, arg interface{}) ([]model.CommunityEarning, error) {
	rows, err := r.DB.Query(query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	earnings := []model.CommunityEarning{}
	for rows.Next() {
		var e model.CommunityEarning
		if err := rows.Scan(&e.ID, &e.CommunityID, &e.PaymentID, &e.Amount, &e.Currency, &e.CreatedAt); err != nil {
			return nil, err
		}
		earnings = append(earnings, e)
	}
	return earnings, nil
}

const paymentSelect = `SELECT id, announcement_id, user_id, amount, currency, status, tx_hash, gateway_session_id, created_at, updated_at FROM payments`

func scanPayment(row rowScanner) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(
		&p.ID, &p.AnnouncementID, &p.UserID, &p.Amount, &p.Currency,
		&p.Status, &p.TxHash, &p.GatewaySessionID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

var _ PaymentRepositoryInterface = (*PaymentRepository)(nil)
