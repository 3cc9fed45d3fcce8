package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"lockgate/pkg/domain"
)

// LockRecordsRepository persists per-account lock state. Every write is a
// single atomic statement per record; cross-record transactions are never
// required because each account's lock flag is independent.
type LockRecordsRepository struct {
	db *sqlx.DB
}

// NewLockRecordsRepository creates a new lock records repository.
func NewLockRecordsRepository(db *sqlx.DB) *LockRecordsRepository {
	return &LockRecordsRepository{db: db}
}

// Get retrieves the lock record for an account.
// Returns domain.ErrRecordNotFound when the account has never been observed.
func (r *LockRecordsRepository) Get(ctx context.Context, accountID uuid.UUID) (*domain.LockRecord, error) {
	query := r.db.Rebind(`
		SELECT account_id, locked, last_login_at, updated_at
		FROM lock_records
		WHERE account_id = ?
	`)
	rec := &domain.LockRecord{}
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(
		&rec.AccountID, &rec.Locked, &rec.LastLoginAt, &rec.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// SetLocked latches the account's lock flag to true, creating the record if
// it does not exist. Returns true when the stored state actually changed.
func (r *LockRecordsRepository) SetLocked(ctx context.Context, accountID uuid.UUID, now time.Time) (bool, error) {
	query := r.db.Rebind(`
		INSERT INTO lock_records (account_id, locked, last_login_at, updated_at)
		VALUES (?, TRUE, NULL, ?)
		ON CONFLICT (account_id) DO UPDATE
		SET locked = TRUE, updated_at = excluded.updated_at
		WHERE lock_records.locked = FALSE
	`)
	result, err := r.db.ExecContext(ctx, query, accountID, now)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// ClearLock clears the account's lock flag. An absent record is already
// unlocked, so no row is created. Returns true when the stored state changed.
func (r *LockRecordsRepository) ClearLock(ctx context.Context, accountID uuid.UUID, now time.Time) (bool, error) {
	query := r.db.Rebind(`
		UPDATE lock_records
		SET locked = FALSE, updated_at = ?
		WHERE account_id = ? AND locked = TRUE
	`)
	result, err := r.db.ExecContext(ctx, query, now, accountID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// RecordLogin sets the account's last successful login time. The lock flag is
// deliberately left untouched: last_login_at tracks activity independent of
// lock state.
func (r *LockRecordsRepository) RecordLogin(ctx context.Context, accountID uuid.UUID, now time.Time) error {
	query := r.db.Rebind(`
		INSERT INTO lock_records (account_id, locked, last_login_at, updated_at)
		VALUES (?, FALSE, ?, ?)
		ON CONFLICT (account_id) DO UPDATE
		SET last_login_at = excluded.last_login_at, updated_at = excluded.updated_at
	`)
	if _, err := r.db.ExecContext(ctx, query, accountID, now, now); err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	return nil
}

// IsLocked reports the stored lock flag. Absent records are not locked.
func (r *LockRecordsRepository) IsLocked(ctx context.Context, accountID uuid.UUID) (bool, error) {
	query := r.db.Rebind(`SELECT locked FROM lock_records WHERE account_id = ?`)
	var locked bool
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return locked, nil
}
