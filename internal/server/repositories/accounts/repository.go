// Package accounts declares the store contract used by the account service.
// Email comparison is case-insensitive: implementations normalize to
// lowercase before lookup and insert.
package accounts

import (
	"context"
	"time"

	"github.com/techclub/recruitd/internal/server/models"
)

// Repository defines typed access to account records.
type Repository interface {
	// Create stores a new account. Returns common.ErrDuplicateEmail when an
	// account with the same normalized email already exists.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	// GetByEmail looks an account up by its email, case-insensitively.
	// Returns common.ErrorNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*models.Account, error)

	// GetByID looks an account up by its identifier.
	GetByID(ctx context.Context, id string) (*models.Account, error)

	// Update persists the account's mutable fields (name, password hash,
	// role, activity and first-login flags). Returns common.ErrorNotFound
	// when the identifier is absent.
	Update(ctx context.Context, account *models.Account) error

	// RegisterFailure records one failed login attempt as a single atomic
	// read-modify-write. When the new counter value reaches threshold, the
	// account transitions to locked with lockUntil as the window end.
	// It returns the counter value and lockout expiry after the update.
	RegisterFailure(ctx context.Context, id string, at time.Time, threshold int, lockUntil time.Time) (int, *time.Time, error)

	// ClearFailures resets the failure counter and lockout state.
	ClearFailures(ctx context.Context, id string) error
}
