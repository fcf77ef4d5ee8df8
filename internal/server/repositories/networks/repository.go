package networks

import (
	"context"

	"github.com/dmitrijs2005/drivenpass/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, n *models.Network) (*models.Network, error)
	GetByID(ctx context.Context, id int64) (*models.Network, error)
	GetByTitle(ctx context.Context, userID int64, title string) (*models.Network, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Network, error)
	Delete(ctx context.Context, id int64) error
}
