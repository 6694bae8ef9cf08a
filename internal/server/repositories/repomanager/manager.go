// Package repomanager wires concrete repositories to a shared database
// handle and owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmorris/notedly/internal/server/repositories/notes"
	"github.com/dmorris/notedly/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Close() error
	Users() users.Repository
	Notes() notes.Repository
}
