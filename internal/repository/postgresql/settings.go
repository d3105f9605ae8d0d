package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingsRepositoryImpl struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepositoryImpl{db: db}
}

// GetAll implements settings.SettingsRepository.
func (r *settingsRepositoryImpl) GetAll(ctx context.Context) ([]settings.Setting, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT key, value, updated_at FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	all := make([]settings.Setting, 0)
	for rows.Next() {
		var s settings.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		all = append(all, s)
	}
	return all, rows.Err()
}

// Get implements settings.SettingsRepository.
func (r *settingsRepositoryImpl) Get(ctx context.Context, key string) (settings.Setting, error) {
	q := GetQuerier(ctx, r.db)

	var s settings.Setting
	err := q.QueryRow(ctx, `SELECT key, value, updated_at FROM settings WHERE key = $1`, key).
		Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return settings.Setting{}, settings.ErrSettingNotFound
	}
	if err != nil {
		return settings.Setting{}, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return s, nil
}

// Upsert implements settings.SettingsRepository.
func (r *settingsRepositoryImpl) Upsert(ctx context.Context, key, value string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := q.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}
