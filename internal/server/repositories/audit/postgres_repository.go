package audit

import (
	"context"
	"fmt"

	"github.com/techclub/recruitd/internal/dbx"
	"github.com/techclub/recruitd/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Record(ctx context.Context, event *models.AuditEvent) error {

	query :=
		`INSERT INTO audit_events (account_id, action, details, created_at)
         VALUES ($1, $2, $3, $4)
		 `

	_, err := r.db.ExecContext(ctx, query,
		event.AccountID, event.Action, event.Details, event.CreatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
