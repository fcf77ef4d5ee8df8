package credentials

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/drivenpass/internal/common"
	"github.com/dmitrijs2005/drivenpass/internal/server/models"
)

// MemoryRepository keeps credentials in process memory.
type MemoryRepository struct {
	mu     sync.RWMutex
	lastID int64
	items  map[int64]models.Credential
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[int64]models.Credential)}
}

func (r *MemoryRepository) Create(ctx context.Context, c *models.Credential) (*models.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.items {
		if item.UserID == c.UserID && item.Title == c.Title {
			return nil, common.ErrDuplicatedTitle
		}
	}

	r.lastID++
	c.ID = r.lastID
	c.CreatedAt = time.Now()
	r.items[c.ID] = *c

	return c, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*models.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &c, nil
}

func (r *MemoryRepository) GetByTitle(ctx context.Context, userID int64, title string) (*models.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.items {
		if c.UserID == userID && c.Title == title {
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Credential, 0)
	for _, c := range r.items {
		if c.UserID == userID {
			c := c
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.items, id)
	return nil
}
