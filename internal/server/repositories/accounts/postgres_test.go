package accounts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/techclub/recruitd/internal/common"
	"github.com/techclub/recruitd/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

// uniqueViolation mimics the driver error shape for SQLSTATE 23505.
type uniqueViolation struct{}

func (uniqueViolation) Error() string    { return "duplicate key value violates unique constraint" }
func (uniqueViolation) SQLState() string { return "23505" }

const insertQuery = `(?s)^INSERT\s+INTO\s+accounts\s*\(id,\s*email,\s*name,\s*password_hash,\s*role,\s*is_active,\s*first_login\)\s*VALUES\s*\(\$1,\s*lower\(\$2\),\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7\)\s*RETURNING\s+created_at,\s*updated_at\s*$`

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now)
	mock.ExpectQuery(insertQuery).
		WithArgs("a-1", "alice@example.com", "Alice", "digest", "member", true, true).
		WillReturnRows(rows)

	a := &models.Account{
		ID: "a-1", Email: "alice@example.com", Name: "Alice",
		PasswordHash: "digest", Role: "member", IsActive: true, FirstLogin: true,
	}
	got, err := repo.Create(context.Background(), a)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).
		WithArgs("a-1", "alice@example.com", "Alice", "digest", "member", true, false).
		WillReturnError(uniqueViolation{})

	_, err := repo.Create(context.Background(), &models.Account{
		ID: "a-1", Email: "alice@example.com", Name: "Alice",
		PasswordHash: "digest", Role: "member", IsActive: true,
	})
	if !errors.Is(err, common.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).
		WithArgs("a-1", "alice@example.com", "Alice", "digest", "member", true, false).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Account{
		ID: "a-1", Email: "alice@example.com", Name: "Alice",
		PasswordHash: "digest", Role: "member", IsActive: true,
	})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func accountRows(id, email string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "email", "name", "password_hash", "role", "is_active", "first_login",
		"failed_attempts", "last_failed_at", "locked_until", "created_at", "updated_at",
	}).AddRow(id, email, "Alice", "digest", "member", true, false, 0, nil, nil, now, now)
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*email,.*FROM\s+accounts\s+WHERE\s+lower\(email\)\s*=\s*lower\(\$1\)\s*$`

	mock.ExpectQuery(q).
		WithArgs("alice@example.com").
		WillReturnRows(accountRows("a-1", "alice@example.com"))

	got, err := repo.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != "a-1" || got.Email != "alice@example.com" {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*email,.*FROM\s+accounts\s+WHERE\s+lower\(email\)\s*=\s*lower\(\$1\)\s*$`

	mock.ExpectQuery(q).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*email,.*FROM\s+accounts\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectQuery(q).
		WithArgs("a-1").
		WillReturnRows(accountRows("a-1", "alice@example.com"))

	got, err := repo.GetByID(context.Background(), "a-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.ID != "a-1" {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestUpdate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+accounts\s+SET\s+name\s*=\s*\$2,.*WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs("a-1", "Alice", "digest", "member", true, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &models.Account{
		ID: "a-1", Name: "Alice", PasswordHash: "digest", Role: "member", IsActive: true,
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+accounts\s+SET\s+name\s*=\s*\$2,.*WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs("missing", "Alice", "digest", "member", true, false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Account{
		ID: "missing", Name: "Alice", PasswordHash: "digest", Role: "member", IsActive: true,
	})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

const failureQuery = `(?s)^UPDATE\s+accounts\s+SET\s+failed_attempts\s*=\s*failed_attempts\s*\+\s*1,.*RETURNING\s+failed_attempts,\s*locked_until\s*$`

func TestRegisterFailure_BelowThreshold(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	at := time.Now()
	lockUntil := at.Add(15 * time.Minute)

	rows := sqlmock.NewRows([]string{"failed_attempts", "locked_until"}).AddRow(1, nil)
	mock.ExpectQuery(failureQuery).
		WithArgs("a-1", at, 3, lockUntil).
		WillReturnRows(rows)

	attempts, locked, err := repo.RegisterFailure(context.Background(), "a-1", at, 3, lockUntil)
	if err != nil {
		t.Fatalf("RegisterFailure error: %v", err)
	}
	if attempts != 1 || locked != nil {
		t.Fatalf("unexpected result: attempts=%d locked=%v", attempts, locked)
	}
}

func TestRegisterFailure_CrossesThreshold(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	at := time.Now()
	lockUntil := at.Add(15 * time.Minute)

	rows := sqlmock.NewRows([]string{"failed_attempts", "locked_until"}).AddRow(3, lockUntil)
	mock.ExpectQuery(failureQuery).
		WithArgs("a-1", at, 3, lockUntil).
		WillReturnRows(rows)

	attempts, locked, err := repo.RegisterFailure(context.Background(), "a-1", at, 3, lockUntil)
	if err != nil {
		t.Fatalf("RegisterFailure error: %v", err)
	}
	if attempts != 3 || locked == nil || !locked.Equal(lockUntil) {
		t.Fatalf("unexpected result: attempts=%d locked=%v", attempts, locked)
	}
}

func TestRegisterFailure_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	at := time.Now()
	mock.ExpectQuery(failureQuery).
		WithArgs("missing", at, 3, at.Add(time.Minute)).
		WillReturnError(sql.ErrNoRows)

	_, _, err := repo.RegisterFailure(context.Background(), "missing", at, 3, at.Add(time.Minute))
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestClearFailures(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+accounts\s+SET\s+failed_attempts\s*=\s*0,.*WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs("a-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.ClearFailures(context.Background(), "a-1"); err != nil {
		t.Fatalf("ClearFailures error: %v", err)
	}
}
