package models

import "time"

// AuditEvent is an append-only record of an account-related action.
// AccountID is nil when the action could not be tied to an account
// (e.g. a login attempt against an unknown email).
type AuditEvent struct {
	ID        int64
	AccountID *string
	Action    string
	Details   string
	CreatedAt time.Time
}
