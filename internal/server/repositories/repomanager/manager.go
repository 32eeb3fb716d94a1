// Package repomanager vends repository implementations bound to a database
// handle and owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"authservice/internal/dbx"
	"authservice/internal/server/repositories/refreshtokens"
	"authservice/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to the given DBTX, which
// lets services run the same repository code inside or outside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
