// Package sessions stores the server-side proof that a token was issued by
// this server. A token without a session row is rejected even if its
// signature is valid, so deleting the row revokes the token.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/drivenpass/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID int64, token string) (*models.Session, error)
	Exists(ctx context.Context, token string) (bool, error)
	Delete(ctx context.Context, token string) error
}
