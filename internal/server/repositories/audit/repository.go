// Package audit declares the append-only audit trail contract. Writes are
// best-effort from the caller's point of view: the account service logs a
// failed write and moves on.
package audit

import (
	"context"

	"github.com/techclub/recruitd/internal/server/models"
)

type Repository interface {
	// Record appends one audit event.
	Record(ctx context.Context, event *models.AuditEvent) error
}
