package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"lockgate/pkg/domain"
)

// GrantsRepository persists reactivation grants, the single-use markers
// behind signed reactivation tokens.
type GrantsRepository struct {
	db *sqlx.DB
}

// NewGrantsRepository creates a new grants repository.
func NewGrantsRepository(db *sqlx.DB) *GrantsRepository {
	return &GrantsRepository{db: db}
}

// Create stores a new grant.
func (r *GrantsRepository) Create(ctx context.Context, grant *domain.ReactivationGrant) error {
	query := r.db.Rebind(`
		INSERT INTO reactivation_grants (id, account_id, issued_by, issued_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		grant.ID, grant.AccountID, grant.IssuedBy, grant.IssuedAt, grant.ExpiresAt,
	)
	return err
}

// GetByID retrieves a grant by its ID (the token's jti claim).
func (r *GrantsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReactivationGrant, error) {
	query := r.db.Rebind(`
		SELECT id, account_id, issued_by, issued_at, expires_at, consumed_at
		FROM reactivation_grants
		WHERE id = ?
	`)
	grant := &domain.ReactivationGrant{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&grant.ID, &grant.AccountID, &grant.IssuedBy,
		&grant.IssuedAt, &grant.ExpiresAt, &grant.ConsumedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrGrantNotFound
	}
	if err != nil {
		return nil, err
	}
	return grant, nil
}

// Consume marks a grant as consumed. The conditional update is the single-use
// guarantee: a grant already consumed by a concurrent caller affects zero rows
// and returns domain.ErrGrantConsumed.
func (r *GrantsRepository) Consume(ctx context.Context, id uuid.UUID, now time.Time) error {
	query := r.db.Rebind(`
		UPDATE reactivation_grants
		SET consumed_at = ?
		WHERE id = ? AND consumed_at IS NULL
	`)
	result, err := r.db.ExecContext(ctx, query, now, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrGrantConsumed
	}
	return nil
}
