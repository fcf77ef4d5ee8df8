package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/drivenpass/internal/common"
	"github.com/dmitrijs2005/drivenpass/internal/server/models"
)

// MemoryRepository keeps users in process memory. It backs the "memory"
// storage mode and tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	lastID int64
	users  map[string]models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]models.User)}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Email]; ok {
		return nil, common.ErrDuplicatedEmail
	}

	r.lastID++
	user.ID = r.lastID
	user.CreatedAt = time.Now()
	r.users[user.Email] = *user

	return user, nil
}

func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}
