package lock

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"lockgate/pkg/domain"
	"lockgate/pkg/repository"
)

// Settings keys for the persisted policy.
const (
	settingInactivityDays = "inactivity_days"
	settingLockedMessage  = "locked_message"
)

// PolicyService reads and writes the global lock policy through the settings
// store. Missing keys fall back to defaults; values are sanitized on write.
type PolicyService struct {
	settings *repository.SettingsRepository
}

// NewPolicyService creates a new policy service.
func NewPolicyService(settings *repository.SettingsRepository) *PolicyService {
	return &PolicyService{settings: settings}
}

// Get loads the current policy, applying defaults for unset keys.
func (s *PolicyService) Get(ctx context.Context) (domain.PolicyConfig, error) {
	cfg := domain.DefaultPolicy()

	value, ok, err := s.settings.Get(ctx, settingInactivityDays)
	if err != nil {
		return domain.PolicyConfig{}, fmt.Errorf("load inactivity days: %w", err)
	}
	if ok {
		if days, err := strconv.Atoi(value); err == nil && days >= 1 {
			cfg.InactivityDays = days
		}
	}

	value, ok, err = s.settings.Get(ctx, settingLockedMessage)
	if err != nil {
		return domain.PolicyConfig{}, fmt.Errorf("load locked message: %w", err)
	}
	if ok {
		cfg.LockedMessage = value
	}

	return cfg, nil
}

// SetPolicyParams carries raw administrative input. Nil fields keep the prior
// value; inactivity days arrive as text and are coerced here.
type SetPolicyParams struct {
	InactivityDays *string
	LockedMessage  *string
}

// Set applies a partial policy update and returns the resulting policy.
// An inactivity-days value that is non-numeric or below 1 is rejected with
// domain.ErrInvalidConfiguration and the prior value is retained.
func (s *PolicyService) Set(ctx context.Context, params SetPolicyParams) (domain.PolicyConfig, error) {
	if params.InactivityDays != nil {
		raw := strings.TrimSpace(*params.InactivityDays)
		days, err := strconv.Atoi(raw)
		if err != nil || days < 1 {
			return domain.PolicyConfig{}, fmt.Errorf("%w: inactivity days must be a positive integer, got %q", domain.ErrInvalidConfiguration, raw)
		}
		if err := s.settings.Set(ctx, settingInactivityDays, strconv.Itoa(days)); err != nil {
			return domain.PolicyConfig{}, fmt.Errorf("store inactivity days: %w", err)
		}
	}

	if params.LockedMessage != nil {
		message := strings.TrimSpace(*params.LockedMessage)
		if err := s.settings.Set(ctx, settingLockedMessage, message); err != nil {
			return domain.PolicyConfig{}, fmt.Errorf("store locked message: %w", err)
		}
	}

	return s.Get(ctx)
}
