package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	appErrors "github.com/chaincast/chaincast-backend/internal/errors"
	"github.com/chaincast/chaincast-backend/internal/model"
)

// CommunityRepositoryInterface defines methods used by services
type CommunityRepositoryInterface interface {
	Create(c *model.Community) error
	GetByID(id int) (*model.Community, error)
	ListCommunities(offset, limit int, platform, approvalStatus string) ([]*model.Community, int, error)
	ListByIDs(ids []int) ([]*model.Community, error)
	Update(c *model.Community) error
	UpdateApproval(id int, approvalStatus string) error
	UpdateChatID(id int, chatID string) error
	UpdateReach(id int, reach int) error
}

// CommunityRepository is the concrete implementation
type CommunityRepository struct {
	DB *sql.DB
}

func (r *CommunityRepository) Create(c *model.Community) error {
	c.CreatedAt = time.Now()
	if c.ApprovalStatus == "" {
		c.ApprovalStatus = model.ApprovalPending
	}
	query := `
        INSERT INTO communities (name, platform, chat_id, reach, price, owner_id, approval_status, wallet_address, regions, focus_areas, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id
    `
	return r.DB.QueryRow(query,
		c.Name, c.Platform, c.ChatID, c.Reach, c.Price, c.OwnerID,
		c.ApprovalStatus, c.WalletAddress, pq.Array(c.Regions), pq.Array(c.FocusAreas), c.CreatedAt,
	).Scan(&c.ID)
}

func (r *CommunityRepository) GetByID(id int) (*model.Community, error) {
	query := `
        SELECT id, name, platform, chat_id, reach, price, owner_id, approval_status, wallet_address, regions, focus_areas, created_at
        FROM communities WHERE id=$1
    `
	var c model.Community
	err := r.DB.QueryRow(query, id).Scan(
		&c.ID, &c.Name, &c.Platform, &c.ChatID, &c.Reach, &c.Price, &c.OwnerID,
		&c.ApprovalStatus, &c.WalletAddress, pq.Array(&c.Regions), pq.Array(&c.FocusAreas), &c.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCommunityNotFound(id)
		}
		return nil, err
	}
	return &c, nil
}

func (r *CommunityRepository) ListCommunities(offset, limit int, platform, approvalStatus string) ([]*model.Community, int, error) {
	communities := []*model.Community{}
	query := `SELECT id, name, platform, chat_id, reach, price, owner_id, approval_status, wallet_address, regions, focus_areas, created_at
              FROM communities WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if platform != "" {
		query += fmt.Sprintf(" AND platform=$%d", argPos)
		args = append(args, platform)
		argPos++
	}
	if approvalStatus != "" {
		query += fmt.Sprintf(" AND approval_status=$%d", argPos)
		args = append(args, approvalStatus)
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
		c := &model.Community{}
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Platform, &c.ChatID, &c.Reach, &c.Price, &c.OwnerID,
			&c.ApprovalStatus, &c.WalletAddress, pq.Array(&c.Regions), pq.Array(&c.FocusAreas), &c.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		communities = append(communities, c)
	}

	countQuery := `SELECT COUNT(*) FROM communities WHERE 1=1`
	argsCount := []interface{}{}
	argPosCount := 1
	if platform != "" {
		countQuery += fmt.Sprintf(" AND platform=$%d", argPosCount)
		argsCount = append(argsCount, platform)
		argPosCount++
	}
	if approvalStatus != "" {
		countQuery += fmt.Sprintf(" AND approval_status=$%d", argPosCount)
		argsCount = append(argsCount, approvalStatus)
	}

	var total int
	if err := r.DB.QueryRow(countQuery, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return communities, total, nil
}

// ListByIDs fetches communities for a selection, preserving no particular order
func (r *CommunityRepository) ListByIDs(ids []int) ([]*model.Community, error) {
	if len(ids) == 0 {
		return []*model.Community{}, nil
	}
	query := `
        SELECT id, name, platform, chat_id, reach, price, owner_id, approval_status, wallet_address, regions, focus_areas, created_at
        FROM communities WHERE id = ANY($1)
    `
	rows, err := r.DB.Query(query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	communities := []*model.Community{}
	for rows.Next() {
		c := &model.Community{}
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Platform, &c.ChatID, &c.Reach, &c.Price, &c.OwnerID,
			&c.ApprovalStatus, &c.WalletAddress, pq.Array(&c.Regions), pq.Array(&c.FocusAreas), &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		communities = append(communities, c)
	}
	return communities, nil
}

func (r *CommunityRepository) Update(c *model.Community) error {
	query := `
        UPDATE communities
        SET name=$1, platform=$2, chat_id=$3, price=$4, wallet_address=$5, regions=$6, focus_areas=$7
        WHERE id=$8
    `
	_, err := r.DB.Exec(query, c.Name, c.Platform, c.ChatID, c.Price, c.WalletAddress,
		pq.Array(c.Regions), pq.Array(c.FocusAreas), c.ID)
	return err
}

func (r *CommunityRepository) UpdateApproval(id int, approvalStatus string) error {
	query := `UPDATE communities SET approval_status=$1 WHERE id=$2`
	_, err := r.DB.Exec(query, approvalStatus, id)
	return err
}

// UpdateChatID persists a corrected chat identifier discovered by the bot
// reachability checker (self-healing of malformed stored identifiers).
func (r *CommunityRepository) UpdateChatID(id int, chatID string) error {
	query := `UPDATE communities SET chat_id=$1 WHERE id=$2`
	_, err := r.DB.Exec(query, chatID, id)
	return err
}

func (r *CommunityRepository) UpdateReach(id int, reach int) error {
	query := `UPDATE communities SET reach=$1 WHERE id=$2`
	_, err := r.DB.Exec(query, reach, id)
	return err
}

var _ CommunityRepositoryInterface = (*CommunityRepository)(nil)
