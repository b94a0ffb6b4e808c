// Package repomanager hands out repositories bound to a database handle,
// which may be either the shared pool or a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/techclub/recruitd/internal/dbx"
	"github.com/techclub/recruitd/internal/server/repositories/accounts"
	"github.com/techclub/recruitd/internal/server/repositories/audit"
	"github.com/techclub/recruitd/internal/server/repositories/sessions"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	// InTx runs fn inside a transaction; the handle passed to fn can be fed
	// back into the repository accessors.
	InTx(ctx context.Context, db *sql.DB, fn func(tx dbx.DBTX) error) error
	Accounts(db dbx.DBTX) accounts.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Audit(db dbx.DBTX) audit.Repository
}
