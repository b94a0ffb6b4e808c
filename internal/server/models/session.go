package models

import "time"

// Session is an authenticated session with a sliding expiry window:
// ExpiresAt is recomputed from LastActivity on every touch. The ID is an
// opaque cryptographically random string. Expiry is evaluated by the store
// at touch time, never from a cached struct.
type Session struct {
	ID           string
	AccountID    string
	CreatedAt    time.Time
	LastActivity time.Time
	ExpiresAt    time.Time
}
