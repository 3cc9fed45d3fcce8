package domain

import (
	"time"

	"github.com/google/uuid"
)

// LockRecord holds the per-account lock state.
// Records are created lazily on first write; a missing record means the
// account is not locked and has no recorded login.
type LockRecord struct {
	AccountID   uuid.UUID
	Locked      bool
	LastLoginAt *time.Time
	UpdatedAt   time.Time
}

// DaysSinceLogin returns the number of whole days since the last login,
// rounded to the nearest day. The second return is false when the account
// has never logged in.
func (r *LockRecord) DaysSinceLogin(now time.Time) (int, bool) {
	if r.LastLoginAt == nil {
		return 0, false
	}
	return int(now.Sub(*r.LastLoginAt).Hours()/24 + 0.5), true
}

// Verdict is the outcome of evaluating an account at authentication time.
type Verdict struct {
	Allow   bool
	Message string // denial message, empty on allow
	Latched bool   // true when this evaluation itself flipped the record to locked
}

// BulkAction is an administrative operation applied to a set of accounts.
type BulkAction string

const (
	BulkLock   BulkAction = "lock"
	BulkUnlock BulkAction = "unlock"
)

// Valid reports whether the action is one of the known bulk actions.
func (a BulkAction) Valid() bool {
	return a == BulkLock || a == BulkUnlock
}
