package domain

import "fmt"

const (
	// DefaultInactivityDays is the threshold used when none is configured.
	DefaultInactivityDays = 90

	// FallbackLockedMessage is shown when no message is configured.
	FallbackLockedMessage = "Your account is locked!"
)

// PolicyConfig is the global lock policy. There is a single instance,
// persisted in the settings store and read at evaluation time.
type PolicyConfig struct {
	InactivityDays int
	LockedMessage  string
}

// DefaultPolicy returns the policy used before any administrator has
// configured one.
func DefaultPolicy() PolicyConfig {
	return PolicyConfig{InactivityDays: DefaultInactivityDays}
}

// PolicyUpdate is a partial policy change; nil fields keep the prior value.
type PolicyUpdate struct {
	InactivityDays *int
	LockedMessage  *string
}

// DenialMessage builds the message returned with a deny verdict. The
// configured message is the prefix; the suffix states the elapsed days and
// the configured threshold.
func (p PolicyConfig) DenialMessage(daysSinceLogin int, hasLogin bool) string {
	prefix := p.LockedMessage
	if prefix == "" {
		prefix = FallbackLockedMessage
	}
	if !hasLogin {
		return fmt.Sprintf("%s This account has never logged in. The configured limit is %d days.", prefix, p.InactivityDays)
	}
	return fmt.Sprintf("%s It has been %d days since last login. The configured limit is %d days.", prefix, daysSinceLogin, p.InactivityDays)
}
