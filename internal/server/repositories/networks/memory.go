package networks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/drivenpass/internal/common"
	"github.com/dmitrijs2005/drivenpass/internal/server/models"
)

// MemoryRepository keeps networks in process memory.
type MemoryRepository struct {
	mu     sync.RWMutex
	lastID int64
	items  map[int64]models.Network
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[int64]models.Network)}
}

func (r *MemoryRepository) Create(ctx context.Context, n *models.Network) (*models.Network, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.items {
		if item.UserID == n.UserID && item.Title == n.Title {
			return nil, common.ErrDuplicatedTitle
		}
	}

	r.lastID++
	n.ID = r.lastID
	n.CreatedAt = time.Now()
	r.items[n.ID] = *n

	return n, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*models.Network, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &n, nil
}

func (r *MemoryRepository) GetByTitle(ctx context.Context, userID int64, title string) (*models.Network, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, n := range r.items {
		if n.UserID == userID && n.Title == title {
			return &n, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Network, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Network, 0)
	for _, n := range r.items {
		if n.UserID == userID {
			n := n
			result = append(result, &n)
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
