package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/drivenpass/internal/dbx"
	"github.com/dmitrijs2005/drivenpass/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/drivenpass/internal/server/repositories/networks"
	"github.com/dmitrijs2005/drivenpass/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/drivenpass/internal/server/repositories/users"
)

// InMemoryRepositoryManager keeps all data in process memory. Handles are
// ignored; WithTx serializes transactional blocks with a single mutex.
type InMemoryRepositoryManager struct {
	txMu        sync.Mutex
	users       *users.MemoryRepository
	sessions    *sessions.MemoryRepository
	credentials *credentials.MemoryRepository
	networks    *networks.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:       users.NewMemoryRepository(),
		sessions:    sessions.NewMemoryRepository(),
		credentials: credentials.NewMemoryRepository(),
		networks:    networks.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Conn() dbx.DBTX {
	return nil
}

func (m *InMemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, nil)
}

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Sessions(dbx.DBTX) sessions.Repository {
	return m.sessions
}

func (m *InMemoryRepositoryManager) Credentials(dbx.DBTX) credentials.Repository {
	return m.credentials
}

func (m *InMemoryRepositoryManager) Networks(dbx.DBTX) networks.Repository {
	return m.networks
}

func (m *InMemoryRepositoryManager) Close() error {
	return nil
}
