package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/drivenpass/internal/server/models"
)

// MemoryRepository keeps sessions in process memory.
type MemoryRepository struct {
	mu       sync.RWMutex
	lastID   int64
	sessions map[string]models.Session
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{sessions: make(map[string]models.Session)}
}

func (r *MemoryRepository) Create(ctx context.Context, userID int64, token string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	s := models.Session{ID: r.lastID, UserID: userID, Token: token, CreatedAt: time.Now()}
	r.sessions[token] = s

	return &s, nil
}

func (r *MemoryRepository) Exists(ctx context.Context, token string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.sessions[token]
	return ok, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, token)
	return nil
}
