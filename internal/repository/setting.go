package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SettingRepository handles the process-wide key/value settings table.
// Values are stored as JSON so admin tooling can keep arbitrary flags
// alongside the scan kill switch.
type SettingRepository struct {
	db DB
}

// NewSettingRepository creates a new SettingRepository instance.
func NewSettingRepository(db DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *SettingRepository) WithTx(tx pgx.Tx) *SettingRepository {
	return &SettingRepository{db: tx}
}

// Bool reads a boolean setting, returning def when the key is absent.
func (r *SettingRepository) Bool(ctx context.Context, key string, def bool) (bool, error) {
	const query = `SELECT value FROM system_settings WHERE key = $1`

	var value bool
	err := r.db.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return def, nil
		}
		return def, fmt.Errorf("failed to read setting %q: %w", key, err)
	}

	return value, nil
}

// Put upserts a setting value.
func (r *SettingRepository) Put(ctx context.Context, key string, value any) error {
	const query = `
		INSERT INTO system_settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`

	if _, err := r.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to put setting %q: %w", key, err)
	}

	return nil
}
