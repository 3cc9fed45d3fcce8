package lock

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"lockgate/pkg/domain"
)

func newTestAdmin(t *testing.T) (*AdminService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAdminService(logger, env.records), env
}

func TestApplyBulk_SelfLockExcluded(t *testing.T) {
	admin, env := newTestAdmin(t)
	ctx := context.Background()
	acting := uuid.New()
	other := uuid.New()

	updated, err := admin.ApplyBulk(ctx, domain.BulkLock, []uuid.UUID{acting, other}, acting)
	if err != nil {
		t.Fatalf("ApplyBulk: %v", err)
	}
	if updated != 1 {
		t.Errorf("updated = %d, want 1 (acting admin skipped)", updated)
	}

	if locked, _ := env.records.IsLocked(ctx, acting); locked {
		t.Error("acting administrator must not be locked")
	}
	if locked, _ := env.records.IsLocked(ctx, other); !locked {
		t.Error("other account should be locked")
	}
}

func TestApplyBulk_LockIdempotent(t *testing.T) {
	admin, _ := newTestAdmin(t)
	ctx := context.Background()
	acting := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	updated, err := admin.ApplyBulk(ctx, domain.BulkLock, ids, acting)
	if err != nil {
		t.Fatalf("ApplyBulk: %v", err)
	}
	if updated != 2 {
		t.Errorf("first lock updated = %d, want 2", updated)
	}

	updated, err = admin.ApplyBulk(ctx, domain.BulkLock, ids, acting)
	if err != nil {
		t.Fatalf("ApplyBulk repeat: %v", err)
	}
	if updated != 0 {
		t.Errorf("repeated lock updated = %d, want 0", updated)
	}
}

func TestApplyBulk_UnlockIncludesSelf(t *testing.T) {
	admin, env := newTestAdmin(t)
	ctx := context.Background()
	acting := uuid.New()

	// Lock the acting admin through another administrator first.
	if _, err := admin.ApplyBulk(ctx, domain.BulkLock, []uuid.UUID{acting}, uuid.New()); err != nil {
		t.Fatalf("ApplyBulk lock: %v", err)
	}

	updated, err := admin.ApplyBulk(ctx, domain.BulkUnlock, []uuid.UUID{acting}, acting)
	if err != nil {
		t.Fatalf("ApplyBulk unlock: %v", err)
	}
	if updated != 1 {
		t.Errorf("updated = %d, want 1 (self-unlock is permitted)", updated)
	}
	if locked, _ := env.records.IsLocked(ctx, acting); locked {
		t.Error("acting administrator should be unlocked")
	}
}

func TestApplyBulk_UnlockIdempotent(t *testing.T) {
	admin, _ := newTestAdmin(t)
	ctx := context.Background()
	id := uuid.New()

	// Unlocking a never-observed account is a silent no-op both times.
	for i := 0; i < 2; i++ {
		updated, err := admin.ApplyBulk(ctx, domain.BulkUnlock, []uuid.UUID{id}, uuid.New())
		if err != nil {
			t.Fatalf("ApplyBulk unlock #%d: %v", i+1, err)
		}
		if updated != 0 {
			t.Errorf("unlock #%d updated = %d, want 0", i+1, updated)
		}
	}
}

func TestApplyBulk_UnknownAction(t *testing.T) {
	admin, _ := newTestAdmin(t)

	_, err := admin.ApplyBulk(context.Background(), domain.BulkAction("purge"), []uuid.UUID{uuid.New()}, uuid.New())
	if !errors.Is(err, domain.ErrInvalidBulkAction) {
		t.Errorf("ApplyBulk = %v, want ErrInvalidBulkAction", err)
	}
}
