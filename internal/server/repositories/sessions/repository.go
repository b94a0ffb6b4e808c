// Package sessions declares the server-side repository contract for managing
// authenticated sessions in persistent storage. Expiry is evaluated lazily at
// read time; no background sweep is required.
package sessions

import (
	"context"
	"time"

	"github.com/techclub/recruitd/internal/server/models"
)

// Repository defines operations for issuing, refreshing, and revoking sessions.
type Repository interface {
	// Create stores a new session.
	Create(ctx context.Context, session *models.Session) error

	// Touch atomically refreshes the session's sliding window: when the
	// session exists and is not expired at the time `at`, last_activity is
	// set to `at` and expires_at to `expiresAt`, and the refreshed session is
	// returned. Returns common.ErrSessionExpired when the session is absent
	// or already past its expiry.
	Touch(ctx context.Context, id string, at time.Time, expiresAt time.Time) (*models.Session, error)

	// Delete removes a session by its identifier. Deleting a non-existent
	// session is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteByAccount removes every session owned by the account.
	DeleteByAccount(ctx context.Context, accountID string) error

	// DeleteByAccountExcept removes every session owned by the account other
	// than keepID. Used after a password change so stolen or stale sessions
	// die while the changing client stays signed in.
	DeleteByAccountExcept(ctx context.Context, accountID, keepID string) error
}
