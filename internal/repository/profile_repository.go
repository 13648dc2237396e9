package repository

import (
	"database/sql"

	"github.com/chaincast/chaincast-backend/internal/model"
)

type ProfileRepositoryInterface interface {
	GetByID(id int) (*model.Profile, error)
	UpdateWallet(id int, walletAddress string) error
}

type ProfileRepository struct {
	DB *sql.DB
}

// GetByID fetches a profile by ID
func (r *ProfileRepository) GetByID(id int) (*model.Profile, error) {
	query := `SELECT id, username, wallet_address, created_at FROM profiles WHERE id=$1`
	var p model.Profile
	if err := r.DB.QueryRow(query, id).Scan(&p.ID, &p.Username, &p.WalletAddress, &p.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return &p, nil
}

// UpdateWallet persists the connected wallet address onto the profile
func (r *ProfileRepository) UpdateWallet(id int, walletAddress string) error {
	query := `UPDATE profiles SET wallet_address=$1 WHERE id=$2`
	_, err := r.DB.Exec(query, walletAddress, id)
	return err
}

var _ ProfileRepositoryInterface = (*ProfileRepository)(nil)
