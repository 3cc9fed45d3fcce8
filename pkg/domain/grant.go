package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReactivationGrant is the persisted single-use marker behind a signed
// reactivation token. The token's jti claim is the grant ID; a grant with
// consumed_at set can never authorize another unlock.
type ReactivationGrant struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	IssuedBy   uuid.UUID
	IssuedAt   time.Time
	ExpiresAt  time.Time
	ConsumedAt *time.Time
}

func (g *ReactivationGrant) IsValid() bool {
	return g.ConsumedAt == nil && time.Now().Before(g.ExpiresAt)
}
