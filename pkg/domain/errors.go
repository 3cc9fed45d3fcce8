package domain

import "errors"

// Lock store errors
var (
	ErrRecordNotFound = errors.New("lock record not found")
)

// Reactivation errors
var (
	ErrTokenInvalid  = errors.New("invalid reactivation token")
	ErrTokenExpired  = errors.New("reactivation token expired")
	ErrGrantNotFound = errors.New("reactivation grant not found")
	ErrGrantConsumed = errors.New("reactivation token already used")
)

// Configuration errors
var (
	ErrInvalidConfiguration = errors.New("invalid policy configuration")
	ErrInvalidBulkAction    = errors.New("unknown bulk action")
)
