package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/techclub/recruitd/internal/common"
	"github.com/techclub/recruitd/internal/dbx"
	"github.com/techclub/recruitd/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, session *models.Session) error {

	query :=
		`INSERT INTO sessions (id, account_id, created_at, last_activity, expires_at)
         VALUES ($1, $2, $3, $4, $5)
		 `

	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.AccountID, session.CreatedAt, session.LastActivity, session.ExpiresAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// Touch refreshes the window in one statement; the expiry guard is part of
// the UPDATE so a session cannot be refreshed after it lapsed.
func (r *PostgresRepository) Touch(ctx context.Context, id string, at time.Time, expiresAt time.Time) (*models.Session, error) {
	query :=
		`UPDATE sessions
		 SET last_activity = $2, expires_at = $3
		 WHERE id = $1 AND expires_at > $2
		 RETURNING account_id, created_at
		 `

	session := &models.Session{ID: id, LastActivity: at, ExpiresAt: expiresAt}
	err := r.db.QueryRowContext(ctx, query, id, at, expiresAt).
		Scan(&session.AccountID, &session.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrSessionExpired
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByAccount(ctx context.Context, accountID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE account_id = $1`, accountID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByAccountExcept(ctx context.Context, accountID, keepID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE account_id = $1 AND id <> $2`, accountID, keepID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
