package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"lockgate/pkg/domain"
	"lockgate/pkg/repository"
)

const (
	reactivateAction = "reactivate"

	// DefaultReactivationTTL bounds how long an issued reactivation link
	// stays usable.
	DefaultReactivationTTL = 24 * time.Hour
)

// ReactivationConfig holds reactivation token configuration.
type ReactivationConfig struct {
	JWTSecret []byte
	Issuer    string
	TokenTTL  time.Duration
}

// ReactivationClaims are the claims carried by a reactivation token. The jti
// claim is the grant ID; the grant row is the single-use marker.
type ReactivationClaims struct {
	jwt.RegisteredClaims
	Action string `json:"action"`
}

// ReactivationService issues and consumes signed, single-use reactivation
// capabilities. A token substitutes for a live administrative session: it is
// only ever issued through the admin surface and authorizes exactly one
// account's unlock.
type ReactivationService struct {
	config  ReactivationConfig
	grants  *repository.GrantsRepository
	records *repository.LockRecordsRepository
}

// NewReactivationService creates a new reactivation service.
func NewReactivationService(config ReactivationConfig, grants *repository.GrantsRepository, records *repository.LockRecordsRepository) *ReactivationService {
	if config.TokenTTL == 0 {
		config.TokenTTL = DefaultReactivationTTL
	}
	return &ReactivationService{config: config, grants: grants, records: records}
}

// Issue creates a signed reactivation token for the account, recorded against
// a fresh grant. Delivering the resulting link is the caller's concern.
func (s *ReactivationService) Issue(ctx context.Context, accountID, issuedBy uuid.UUID) (string, *domain.ReactivationGrant, error) {
	now := time.Now()
	grant := &domain.ReactivationGrant{
		ID:        uuid.New(),
		AccountID: accountID,
		IssuedBy:  issuedBy,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.config.TokenTTL),
	}
	if err := s.grants.Create(ctx, grant); err != nil {
		return "", nil, fmt.Errorf("create grant: %w", err)
	}

	claims := ReactivationClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			ID:        grant.ID.String(),
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(grant.ExpiresAt),
		},
		Action: reactivateAction,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.config.JWTSecret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, grant, nil
}

// Consume verifies a reactivation token, burns its grant, and unlocks the
// bound account. A token is honored at most once: the first caller wins and
// every later attempt gets domain.ErrGrantConsumed. No state changes on any
// rejection.
func (s *ReactivationService) Consume(ctx context.Context, tokenString string) (uuid.UUID, error) {
	claims := &ReactivationClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.config.JWTSecret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, domain.ErrTokenExpired
		}
		return uuid.Nil, domain.ErrTokenInvalid
	}
	if !parsed.Valid || claims.Action != reactivateAction {
		return uuid.Nil, domain.ErrTokenInvalid
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	grantID, err := uuid.Parse(claims.ID)
	if err != nil {
		return uuid.Nil, domain.ErrTokenInvalid
	}

	grant, err := s.grants.GetByID(ctx, grantID)
	if err != nil {
		return uuid.Nil, err
	}
	if grant.AccountID != accountID {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	if grant.ConsumedAt != nil {
		return uuid.Nil, domain.ErrGrantConsumed
	}
	if !grant.IsValid() {
		return uuid.Nil, domain.ErrTokenExpired
	}

	now := time.Now()
	if err := s.grants.Consume(ctx, grant.ID, now); err != nil {
		return uuid.Nil, err
	}
	if _, err := s.records.ClearLock(ctx, accountID, now); err != nil {
		return uuid.Nil, fmt.Errorf("clear lock: %w", err)
	}
	return accountID, nil
}
