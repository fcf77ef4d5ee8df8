package repomanager

import (
	"context"

	"github.com/dmitrijs2005/drivenpass/internal/dbx"
	"github.com/dmitrijs2005/drivenpass/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/drivenpass/internal/server/repositories/networks"
	"github.com/dmitrijs2005/drivenpass/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/drivenpass/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX handle. Services use
// Conn() for single statements and WithTx for check-then-insert sequences.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Conn() dbx.DBTX
	WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Credentials(db dbx.DBTX) credentials.Repository
	Networks(db dbx.DBTX) networks.Repository
	Close() error
}

type sessionOverride struct {
	RepositoryManager
	sessions sessions.Repository
}

func (m *sessionOverride) Sessions(dbx.DBTX) sessions.Repository {
	return m.sessions
}

// WithSessionStore returns m with its session store replaced by store, used
// to keep sessions in Redis whatever the storage backend is.
func WithSessionStore(m RepositoryManager, store sessions.Repository) RepositoryManager {
	return &sessionOverride{RepositoryManager: m, sessions: store}
}
