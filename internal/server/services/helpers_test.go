package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/drivenpass/internal/cryptox"
	"github.com/dmitrijs2005/drivenpass/internal/server/config"
	"github.com/dmitrijs2005/drivenpass/internal/server/models"
	"golang.org/x/crypto/bcrypt"
)

// --- helpers ---

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:  "k", // для JWT
		BcryptCost: bcrypt.MinCost,
	}
}

func newCipher(t *testing.T) *cryptox.Cipher {
	t.Helper()
	c, err := cryptox.NewCipher("test-cipher-key")
	if err != nil {
		t.Fatalf("NewCipher error: %v", err)
	}
	return c
}

// failingSessions is a session store whose every call fails.
type failingSessions struct{ err error }

func (f *failingSessions) Create(context.Context, int64, string) (*models.Session, error) {
	return nil, f.err
}
func (f *failingSessions) Exists(context.Context, string) (bool, error) { return false, f.err }
func (f *failingSessions) Delete(context.Context, string) error         { return f.err }

// brokenCipher fails every operation.
type brokenCipher struct{}

var errCipher = errors.New("cipher down")

func (brokenCipher) Encrypt(string) (string, error) { return "", errCipher }
func (brokenCipher) Decrypt(string) (string, error) { return "", errCipher }

var testConfigOtherSecret = config.Config{SecretKey: "other", BcryptCost: bcrypt.MinCost}

func newOtherCipher(t *testing.T) *cryptox.Cipher {
	t.Helper()
	c, err := cryptox.NewCipher("another-cipher-key")
	if err != nil {
		t.Fatalf("NewCipher error: %v", err)
	}
	return c
}
