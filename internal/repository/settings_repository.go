package repository

import (
	"database/sql"

	"github.com/chaincast/chaincast-backend/internal/model"
)

// DefaultPlatformFee applies when no settings row has been created yet.
const DefaultPlatformFee = 1.0

type SettingsRepositoryInterface interface {
	Get() (*model.PlatformSettings, error)
	Update(s *model.PlatformSettings) error
}

type SettingsRepository struct {
	DB *sql.DB
}

// Get returns the singleton settings row, or defaults when none exists.
func (r *SettingsRepository) Get() (*model.PlatformSettings, error) {
	query := `SELECT id, platform_fee, bot_token, bot_username, updated_at FROM platform_settings ORDER BY id LIMIT 1`
	var s model.PlatformSettings
	err := r.DB.QueryRow(query).Scan(&s.ID, &s.PlatformFee, &s.BotToken, &s.BotUsername, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return &model.PlatformSettings{PlatformFee: DefaultPlatformFee}, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) Update(s *model.PlatformSettings) error {
	query := `
        INSERT INTO platform_settings (id, platform_fee, bot_token, bot_username, updated_at)
        VALUES (1, $1, $2, $3, NOW())
        ON CONFLICT (id) DO UPDATE
        SET platform_fee=EXCLUDED.platform_fee, bot_token=EXCLUDED.bot_token,
            bot_username=EXCLUDED.bot_username, updated_at=NOW()
    `
	_, err := r.DB.Exec(query, s.PlatformFee, s.BotToken, s.BotUsername)
	return err
}

var _ SettingsRepositoryInterface = (*SettingsRepository)(nil)
