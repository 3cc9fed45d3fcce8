package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// SettingsRepository is a generic key/value configuration store.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get retrieves a setting value. The second return is false when the key has
// never been written.
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	query := r.db.Rebind(`SELECT value FROM settings WHERE key = ?`)
	var value string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set writes a setting value, creating the key if needed.
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	query := r.db.Rebind(`
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE
		SET value = excluded.value, updated_at = excluded.updated_at
	`)
	_, err := r.db.ExecContext(ctx, query, key, value, time.Now().UTC())
	return err
}
