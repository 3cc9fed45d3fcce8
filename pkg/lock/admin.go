package lock

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lockgate/pkg/domain"
	"lockgate/pkg/repository"
)

// AdminService applies administrative bulk lock and unlock actions.
type AdminService struct {
	logger  *slog.Logger
	records *repository.LockRecordsRepository
}

// NewAdminService creates a new admin service.
func NewAdminService(logger *slog.Logger, records *repository.LockRecordsRepository) *AdminService {
	return &AdminService{logger: logger, records: records}
}

// ApplyBulk applies the action to every account in the list and returns the
// number of records whose stored state actually changed.
//
// Lock skips the acting administrator silently; administrators cannot lock
// themselves out in bulk. Unlock has no such exclusion. Each record's write is
// independent: a failure on one account is logged and the rest proceed, so a
// partially applied bulk action is a possible and accepted outcome.
func (s *AdminService) ApplyBulk(ctx context.Context, action domain.BulkAction, accountIDs []uuid.UUID, actingID uuid.UUID) (int, error) {
	if !action.Valid() {
		return 0, domain.ErrInvalidBulkAction
	}

	now := time.Now()
	updated := 0
	for _, id := range accountIDs {
		if action == domain.BulkLock && id == actingID {
			continue
		}

		var changed bool
		var err error
		switch action {
		case domain.BulkLock:
			changed, err = s.records.SetLocked(ctx, id, now)
		case domain.BulkUnlock:
			changed, err = s.records.ClearLock(ctx, id, now)
		}
		if err != nil {
			s.logger.Error("bulk action failed for account",
				"action", action,
				"account_id", id,
				"error", err,
			)
			continue
		}
		if changed {
			updated++
		}
	}

	return updated, nil
}
