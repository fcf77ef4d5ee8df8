// Package services holds the business logic behind the REST handlers:
// accounts and sessions, and the encrypted credential and network records.
package services

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/drivenpass/internal/common"
	"github.com/dmitrijs2005/drivenpass/internal/dbx"
	"github.com/dmitrijs2005/drivenpass/internal/server/auth"
	"github.com/dmitrijs2005/drivenpass/internal/server/config"
	"github.com/dmitrijs2005/drivenpass/internal/server/models"
	"github.com/dmitrijs2005/drivenpass/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// SignInResult is returned by a successful sign-in.
type SignInResult struct {
	User  *models.User
	Token string
}

type UserService struct {
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	bcryptCost            int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewUserService(m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		bcryptCost:            cfg.BcryptCost,
	}
}

// passwordDigest folds password into 44 bytes, below the 72-byte bcrypt input limit.
func passwordDigest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// CreateUser registers email with a bcrypt hash of password. The returned
// user carries no hash.
func (s *UserService) CreateUser(ctx context.Context, email, password string) (*models.User, error) {
	var created *models.User

	err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetUserByEmail(ctx, email)
		if err == nil {
			return common.ErrDuplicatedEmail
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error searching user: %w", err)
		}

		hash, err := bcrypt.GenerateFromPassword(passwordDigest(password), s.bcryptCost)
		if err != nil {
			return fmt.Errorf("error hashing password: %w", err)
		}

		created, err = repo.Create(ctx, &models.User{Email: email, Password: string(hash)})
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &models.User{ID: created.ID, Email: created.Email, CreatedAt: created.CreatedAt}, nil
}

// compareDummy spends the same bcrypt work for an unknown e-mail as for a
// wrong password.
func (s *UserService) compareDummy(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword(passwordDigest("drivenpass"), s.bcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(s.dummyHash, passwordDigest(password))
}

// SignIn checks the password, issues a token and records a session for it.
// Unknown e-mail and wrong password both yield common.ErrInvalidCredentials.
func (s *UserService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	user, err := s.repomanager.Users(s.repomanager.Conn()).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.compareDummy(password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), passwordDigest(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	if _, err := s.repomanager.Sessions(s.repomanager.Conn()).Create(ctx, user.ID, token); err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	return &SignInResult{
		User:  &models.User{ID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt},
		Token: token,
	}, nil
}

// Authenticate resolves token to its user id. Authentication failures wrap
// common.ErrorUnauthorized together with the reason (common.ErrInvalidToken
// or common.ErrSessionNotFound); store failures are returned as is.
func (s *UserService) Authenticate(ctx context.Context, token string) (int64, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrInvalidToken)
	}

	ok, err := s.repomanager.Sessions(s.repomanager.Conn()).Exists(ctx, token)
	if err != nil {
		return 0, fmt.Errorf("error checking session: %w", err)
	}
	if !ok {
		return 0, fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrSessionNotFound)
	}

	return userID, nil
}

// SignOut removes the session of token so it can no longer be used.
func (s *UserService) SignOut(ctx context.Context, token string) error {
	if err := s.repomanager.Sessions(s.repomanager.Conn()).Delete(ctx, token); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}
