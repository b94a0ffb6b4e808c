// Package common defines shared constants and sentinel errors used across
// recruitd components. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
	"time"
)

var (
	// Repository-level errors.
	ErrorNotFound     = errors.New("not found")
	ErrDuplicateEmail = errors.New("duplicate email")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Codec errors (malformed stored digest).
	ErrMalformedDigest = errors.New("malformed password digest")

	// Policy-layer errors: expected, user-visible outcomes. Never logged as
	// errors by the account service.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account locked")
	ErrAccountInactive    = errors.New("account inactive")
	ErrSessionExpired     = errors.New("session expired")
	ErrWeakPassword       = errors.New("password does not meet policy")
	ErrPermissionDenied   = errors.New("permission denied")
)

// LockedError reports a login attempt rejected because the account is inside
// a lockout window. Until is the moment the window ends.
//
// errors.Is(err, ErrAccountLocked) matches it; use errors.As to read Until.
type LockedError struct {
	Until time.Time
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account locked until %s", e.Until.Format(time.RFC3339))
}

func (e *LockedError) Is(target error) bool {
	return target == ErrAccountLocked
}
