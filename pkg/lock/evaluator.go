package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lockgate/pkg/domain"
	"lockgate/pkg/repository"
)

// Evaluator decides whether an account may proceed with authentication.
// It runs after password verification and before session establishment.
//
// Evaluate is not a pure read: the first time an account is seen past the
// inactivity threshold, the lock flag is latched into the store. The verdict's
// Latched field reports that write. Once latched, only an explicit unlock
// clears the flag; elapsed time is never re-derived, so later threshold
// changes do not retroactively unlock accounts.
type Evaluator struct {
	records *repository.LockRecordsRepository
	policy  *PolicyService
}

// NewEvaluator creates a new evaluator.
func NewEvaluator(records *repository.LockRecordsRepository, policy *PolicyService) *Evaluator {
	return &Evaluator{records: records, policy: policy}
}

// Evaluate returns the allow/deny verdict for an account. Any error means the
// decision could not be made; callers must treat that as a denial, never an
// allow.
func (e *Evaluator) Evaluate(ctx context.Context, accountID uuid.UUID) (domain.Verdict, error) {
	cfg, err := e.policy.Get(ctx)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("load policy: %w", err)
	}

	rec, err := e.records.Get(ctx, accountID)
	if errors.Is(err, domain.ErrRecordNotFound) {
		// Never observed: not locked, no inactivity history.
		return domain.Verdict{Allow: true}, nil
	}
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("load lock record: %w", err)
	}

	now := time.Now()
	days, hasLogin := rec.DaysSinceLogin(now)

	if rec.Locked {
		return domain.Verdict{Message: cfg.DenialMessage(days, hasLogin)}, nil
	}

	if hasLogin && days > cfg.InactivityDays {
		// Latch before denying so subsequent attempts short-circuit on the
		// stored flag instead of recomputing elapsed time.
		if _, err := e.records.SetLocked(ctx, accountID, now); err != nil {
			return domain.Verdict{}, fmt.Errorf("latch lock: %w", err)
		}
		return domain.Verdict{
			Message: cfg.DenialMessage(days, true),
			Latched: true,
		}, nil
	}

	return domain.Verdict{Allow: true}, nil
}

// RecordLogin notes a fully successful authentication. Hosts must call this
// whenever a login completes; the lock flag is not touched.
func (e *Evaluator) RecordLogin(ctx context.Context, accountID uuid.UUID) error {
	return e.records.RecordLogin(ctx, accountID, time.Now())
}

// IsLocked is the read-only view consumed by account listings.
func (e *Evaluator) IsLocked(ctx context.Context, accountID uuid.UUID) (bool, error) {
	return e.records.IsLocked(ctx, accountID)
}
