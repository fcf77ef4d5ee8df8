package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/drivenpass/internal/common"
	"github.com/dmitrijs2005/drivenpass/internal/dbx"
	"github.com/dmitrijs2005/drivenpass/internal/server/models"
	"github.com/dmitrijs2005/drivenpass/internal/server/repositories/repomanager"
)

// CredentialInput is the caller-supplied part of a credential.
type CredentialInput struct {
	Title    string
	URL      string
	Username string
	Password string
}

type CredentialService struct {
	repomanager repomanager.RepositoryManager
	cipher      SecretCipher
}

func NewCredentialService(m repomanager.RepositoryManager, c SecretCipher) *CredentialService {
	return &CredentialService{repomanager: m, cipher: c}
}

// Create stores a credential for userID with its password encrypted and
// returns it with the plaintext password.
func (s *CredentialService) Create(ctx context.Context, userID int64, in CredentialInput) (*models.Credential, error) {
	var created *models.Credential

	err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Credentials(tx)

		_, err := repo.GetByTitle(ctx, userID, in.Title)
		if err == nil {
			return common.ErrDuplicatedTitle
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error searching credential: %w", err)
		}

		encrypted, err := s.cipher.Encrypt(in.Password)
		if err != nil {
			return fmt.Errorf("error encrypting password: %w", err)
		}

		created, err = repo.Create(ctx, &models.Credential{
			UserID:   userID,
			Title:    in.Title,
			URL:      in.URL,
			Username: in.Username,
			Password: encrypted,
		})
		if err != nil {
			return fmt.Errorf("error creating credential: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := *created
	out.Password = in.Password
	return &out, nil
}

// Get returns the decrypted credential id. A credential owned by someone
// else is reported as common.ErrorNotFound.
func (s *CredentialService) Get(ctx context.Context, userID, id int64) (*models.Credential, error) {
	c, err := s.owned(ctx, s.repomanager.Conn(), userID, id)
	if err != nil {
		return nil, err
	}
	return s.decrypt(c)
}

// List returns all credentials of userID, decrypted, ordered by id.
func (s *CredentialService) List(ctx context.Context, userID int64) ([]*models.Credential, error) {
	items, err := s.repomanager.Credentials(s.repomanager.Conn()).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing credentials: %w", err)
	}

	out := make([]*models.Credential, 0, len(items))
	for _, c := range items {
		d, err := s.decrypt(c)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Delete removes credential id if userID owns it.
func (s *CredentialService) Delete(ctx context.Context, userID, id int64) error {
	return s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.owned(ctx, tx, userID, id); err != nil {
			return err
		}
		if err := s.repomanager.Credentials(tx).Delete(ctx, id); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("error deleting credential: %w", err)
		}
		return nil
	})
}

func (s *CredentialService) owned(ctx context.Context, db dbx.DBTX, userID, id int64) (*models.Credential, error) {
	c, err := s.repomanager.Credentials(db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error searching credential: %w", err)
	}
	if c.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return c, nil
}

func (s *CredentialService) decrypt(c *models.Credential) (*models.Credential, error) {
	plain, err := s.cipher.Decrypt(c.Password)
	if err != nil {
		return nil, fmt.Errorf("credential %d: %w", c.ID, err)
	}
	out := *c
	out.Password = plain
	return &out, nil
}
