package models

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Account is a portal account. PasswordHash is an opaque argon2id digest;
// the plaintext is never stored. Lockout bookkeeping lives on the row so a
// failed login attempt is a single read-modify-write against the store.
// Accounts are never hard-deleted, only deactivated.
type Account struct {
	ID             string
	Email          string
	Name           string
	PasswordHash   string
	Role           string
	IsActive       bool
	FirstLogin     bool
	FailedAttempts int
	LastFailedAt   *time.Time
	LockedUntil    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsAdmin reports whether the account may access privileged operations.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// LockedAt reports whether the account is inside a lockout window at t.
func (a *Account) LockedAt(t time.Time) bool {
	return a.LockedUntil != nil && t.Before(*a.LockedUntil)
}
