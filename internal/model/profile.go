// internal/model/profile.go
package model

import "time"

type Profile struct {
	ID            int       `db:"id" json:"id"`
	Username      string    `db:"username" json:"username"`
	WalletAddress string    `db:"wallet_address" json:"wallet_address,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
