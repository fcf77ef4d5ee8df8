// Package networks provides the PostgreSQL-backed repository for stored
// Wi-Fi entries.
package networks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/drivenpass/internal/common"
	"github.com/dmitrijs2005/drivenpass/internal/dbx"
	"github.com/dmitrijs2005/drivenpass/internal/server/models"
)

const titleConstraint = "networks_user_title_key"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, n *models.Network) (*models.Network, error) {
	query := `
		INSERT INTO networks (user_id, title, network, password)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, n.UserID, n.Title, n.Network, n.Password).
		Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err, titleConstraint) {
			return nil, common.ErrDuplicatedTitle
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Network, error) {
	query := `
		SELECT id, user_id, title, network, password, created_at
		FROM networks
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByTitle(ctx context.Context, userID int64, title string) (*models.Network, error) {
	query := `
		SELECT id, user_id, title, network, password, created_at
		FROM networks
		WHERE user_id = $1 AND title = $2
	`
	return r.getOne(ctx, query, userID, title)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Network, error) {
	n := &models.Network{}
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&n.ID, &n.UserID, &n.Title, &n.Network, &n.Password, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Network, error) {
	query := `
		SELECT id, user_id, title, network, password, created_at
		FROM networks
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select networks: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Network, 0)
	for rows.Next() {
		var n models.Network
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Network, &n.Password, &n.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM networks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
