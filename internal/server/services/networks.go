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

// NetworkInput is the caller-supplied part of a Wi-Fi entry.
type NetworkInput struct {
	Title    string
	Network  string
	Password string
}

type NetworkService struct {
	repomanager repomanager.RepositoryManager
	cipher      SecretCipher
}

func NewNetworkService(m repomanager.RepositoryManager, c SecretCipher) *NetworkService {
	return &NetworkService{repomanager: m, cipher: c}
}

// Create stores a Wi-Fi entry for userID with its password encrypted.
func (s *NetworkService) Create(ctx context.Context, userID int64, in NetworkInput) (*models.Network, error) {
	var created *models.Network

	err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Networks(tx)

		_, err := repo.GetByTitle(ctx, userID, in.Title)
		if err == nil {
			return common.ErrDuplicatedTitle
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error searching network: %w", err)
		}

		encrypted, err := s.cipher.Encrypt(in.Password)
		if err != nil {
			return fmt.Errorf("error encrypting password: %w", err)
		}

		created, err = repo.Create(ctx, &models.Network{
			UserID:   userID,
			Title:    in.Title,
			Network:  in.Network,
			Password: encrypted,
		})
		if err != nil {
			return fmt.Errorf("error creating network: %w", err)
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

// Get returns the decrypted network id. A network owned by someone
// else is reported as common.ErrorNotFound.
func (s *NetworkService) Get(ctx context.Context, userID, id int64) (*models.Network, error) {
	n, err := s.owned(ctx, s.repomanager.Conn(), userID, id)
	if err != nil {
		return nil, err
	}
	return s.decrypt(n)
}

// List returns all networks of userID, decrypted, ordered by id.
func (s *NetworkService) List(ctx context.Context, userID int64) ([]*models.Network, error) {
	items, err := s.repomanager.Networks(s.repomanager.Conn()).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing networks: %w", err)
	}

	out := make([]*models.Network, 0, len(items))
	for _, n := range items {
		d, err := s.decrypt(n)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Delete removes network id if userID owns it.
func (s *NetworkService) Delete(ctx context.Context, userID, id int64) error {
	return s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.owned(ctx, tx, userID, id); err != nil {
			return err
		}
		if err := s.repomanager.Networks(tx).Delete(ctx, id); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("error deleting network: %w", err)
		}
		return nil
	})
}

func (s *NetworkService) owned(ctx context.Context, db dbx.DBTX, userID, id int64) (*models.Network, error) {
	n, err := s.repomanager.Networks(db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error searching network: %w", err)
	}
	if n.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return n, nil
}

func (s *NetworkService) decrypt(n *models.Network) (*models.Network, error) {
	plain, err := s.cipher.Decrypt(n.Password)
	if err != nil {
		return nil, fmt.Errorf("network %d: %w", n.ID, err)
	}
	out := *n
	out.Password = plain
	return &out, nil
}
