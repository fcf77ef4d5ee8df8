// Package credentials provides the PostgreSQL-backed repository for stored
// site logins. Passwords are persisted exactly as given (ciphertext).
package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/drivenpass/internal/common"
	"github.com/dmitrijs2005/drivenpass/internal/dbx"
	"github.com/dmitrijs2005/drivenpass/internal/server/models"
)

const titleConstraint = "credentials_user_title_key"

// PostgresRepository implements credential storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts c and fills ID and CreatedAt. A title already used by the
// same owner yields common.ErrDuplicatedTitle.
func (r *PostgresRepository) Create(ctx context.Context, c *models.Credential) (*models.Credential, error) {
	query := `
		INSERT INTO credentials (user_id, title, url, username, password)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, c.UserID, c.Title, c.URL, c.Username, c.Password).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err, titleConstraint) {
			return nil, common.ErrDuplicatedTitle
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Credential, error) {
	query := `
		SELECT id, user_id, title, url, username, password, created_at
		FROM credentials
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByTitle(ctx context.Context, userID int64, title string) (*models.Credential, error) {
	query := `
		SELECT id, user_id, title, url, username, password, created_at
		FROM credentials
		WHERE user_id = $1 AND title = $2
	`
	return r.getOne(ctx, query, userID, title)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Credential, error) {
	c := &models.Credential{}
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&c.ID, &c.UserID, &c.Title, &c.URL, &c.Username, &c.Password, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// ListByUser returns every credential owned by userID ordered by id.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Credential, error) {
	query := `
		SELECT id, user_id, title, url, username, password, created_at
		FROM credentials
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select credentials: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Credential, 0)
	for rows.Next() {
		var c models.Credential
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.URL, &c.Username, &c.Password, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the credential by id, or returns common.ErrorNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE id = $1`, id)
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
