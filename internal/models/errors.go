package models

import "errors"

// Sentinel errors shared across services. Handlers map these to HTTP
// statuses with errors.Is; everything else is a 500.
var (
	// ErrUnauthenticated means no valid caller identity was present.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrAccountNotFound covers both a missing account and an account owned
	// by a different user — ownership misses are never distinguishable from
	// absence in API responses.
	ErrAccountNotFound = errors.New("account not found")

	// ErrTransactionNotFound covers a missing transaction or one owned by a
	// different user.
	ErrTransactionNotFound = errors.New("transaction not found")

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRateLimited and ErrBlocked are the two abuse-limiter deny reasons.
	ErrRateLimited = errors.New("rate limit exceeded")
	ErrBlocked     = errors.New("request blocked")

	// ErrExtractionFailed is the single error surfaced for any receipt
	// extraction failure; callers never see partially-parsed data.
	ErrExtractionFailed = errors.New("receipt extraction failed")
)
