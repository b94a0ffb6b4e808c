package accounts

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

const accountColumns = `id, email, name, password_hash, role, is_active, first_login,
		 failed_attempts, last_failed_at, locked_until, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {

	query :=
		`INSERT INTO accounts (id, email, name, password_hash, role, is_active, first_login)
         VALUES ($1, lower($2), $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Email, account.Name, account.PasswordHash,
		account.Role, account.IsActive, account.FirstLogin).
		Scan(&account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT ` + accountColumns + ` FROM accounts
		 WHERE lower(email) = lower($1)
		 `

	return r.scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query :=
		`SELECT ` + accountColumns + ` FROM accounts
		 WHERE id = $1
		 `

	return r.scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Update(ctx context.Context, account *models.Account) error {
	query :=
		`UPDATE accounts
		 SET name = $2, password_hash = $3, role = $4, is_active = $5,
		     first_login = $6, updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		account.ID, account.Name, account.PasswordHash, account.Role,
		account.IsActive, account.FirstLogin)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// RegisterFailure increments the counter and, at the threshold, sets the
// lockout expiry in the same statement. Concurrent failed attempts therefore
// cannot slip past the threshold between a read and a write.
func (r *PostgresRepository) RegisterFailure(ctx context.Context, id string, at time.Time, threshold int, lockUntil time.Time) (int, *time.Time, error) {
	query :=
		`UPDATE accounts
		 SET failed_attempts = failed_attempts + 1,
		     last_failed_at = $2,
		     locked_until = CASE WHEN failed_attempts + 1 >= $3 THEN $4 ELSE locked_until END,
		     updated_at = $2
		 WHERE id = $1
		 RETURNING failed_attempts, locked_until
		 `

	var attempts int
	var lockedUntil *time.Time
	err := r.db.QueryRowContext(ctx, query, id, at, threshold, lockUntil).
		Scan(&attempts, &lockedUntil)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil, common.ErrorNotFound
		}
		return 0, nil, fmt.Errorf("db error: %w", err)
	}

	return attempts, lockedUntil, nil
}

func (r *PostgresRepository) ClearFailures(ctx context.Context, id string) error {
	query :=
		`UPDATE accounts
		 SET failed_attempts = 0, last_failed_at = NULL, locked_until = NULL, updated_at = now()
		 WHERE id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) scanAccount(row *sql.Row) (*models.Account, error) {
	account := &models.Account{}
	err := row.Scan(
		&account.ID, &account.Email, &account.Name, &account.PasswordHash,
		&account.Role, &account.IsActive, &account.FirstLogin,
		&account.FailedAttempts, &account.LastFailedAt, &account.LockedUntil,
		&account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

// isUniqueViolation detects a PostgreSQL unique constraint violation without
// depending on the driver's error type directly.
func isUniqueViolation(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
