package sessions

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

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+sessions\s*\(id,\s*account_id,\s*created_at,\s*last_activity,\s*expires_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*$`

	now := time.Now()
	mock.ExpectExec(q).
		WithArgs("s-1", "a-1", now, now, now.Add(time.Hour)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.Session{
		ID: "s-1", AccountID: "a-1", CreatedAt: now, LastActivity: now, ExpiresAt: now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

const touchQuery = `(?s)^UPDATE\s+sessions\s+SET\s+last_activity\s*=\s*\$2,\s*expires_at\s*=\s*\$3\s+WHERE\s+id\s*=\s*\$1\s+AND\s+expires_at\s*>\s*\$2\s+RETURNING\s+account_id,\s*created_at\s*$`

func TestTouch_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	createdAt := now.Add(-10 * time.Minute)

	rows := sqlmock.NewRows([]string{"account_id", "created_at"}).AddRow("a-1", createdAt)
	mock.ExpectQuery(touchQuery).
		WithArgs("s-1", now, now.Add(time.Hour)).
		WillReturnRows(rows)

	got, err := repo.Touch(context.Background(), "s-1", now, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("Touch error: %v", err)
	}
	if got.AccountID != "a-1" || !got.CreatedAt.Equal(createdAt) || !got.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestTouch_Expired(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(touchQuery).
		WithArgs("s-1", now, now.Add(time.Hour)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Touch(context.Background(), "s-1", now, now.Add(time.Hour))
	if !errors.Is(err, common.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestTouch_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(touchQuery).
		WithArgs("s-1", now, now.Add(time.Hour)).
		WillReturnError(errors.New("db down"))

	_, err := repo.Touch(context.Background(), "s-1", now, now.Add(time.Hour))
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+sessions\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs("s-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "s-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDeleteByAccountExcept(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+sessions\s+WHERE\s+account_id\s*=\s*\$1\s+AND\s+id\s*<>\s*\$2\s*$`

	mock.ExpectExec(q).
		WithArgs("a-1", "s-keep").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteByAccountExcept(context.Background(), "a-1", "s-keep"); err != nil {
		t.Fatalf("DeleteByAccountExcept error: %v", err)
	}
}

func TestDeleteByAccount(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+sessions\s+WHERE\s+account_id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs("a-1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := repo.DeleteByAccount(context.Background(), "a-1"); err != nil {
		t.Fatalf("DeleteByAccount error: %v", err)
	}
}
