// Package cryptox implements the symmetric cipher that protects stored secrets.
//
// Ciphertexts are AES-256-GCM sealed with a random 12-byte nonce and encoded as
// base64(nonce || sealed). The AES key is derived from a configured passphrase
// with argon2id and a fixed application salt, so the same passphrase always
// yields the same key and previously stored values stay readable after restart.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/drivenpass/internal/common"
	"golang.org/x/crypto/argon2"
)

const nonceSize = 12

// keySalt binds derived keys to this application.
var keySalt = []byte("drivenpass/secret-cipher/v1")

// DeriveMasterKey stretches password into a 32-byte key with argon2id.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	x := argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
	return x
}

// Cipher encrypts and decrypts secret strings with a single static key.
// It is safe for concurrent use.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher derives the AES key from key and prepares an AES-GCM AEAD.
func NewCipher(key string) (*Cipher, error) {
	if key == "" {
		return nil, errors.New("cipher key is empty")
	}

	derived := DeriveMasterKey([]byte(key), keySalt)
	defer common.Wipe(derived)

	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, fmt.Errorf("aes init error: %w", err)
	}

	aesgcm, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, fmt.Errorf("gcm init error: %w", err)
	}

	return &Cipher{aead: aesgcm}, nil
}

// Encrypt seals plaintext and returns base64(nonce || ciphertext).
// Two calls with the same plaintext produce different outputs.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce, err := common.RandomBytes(nonceSize)
	if err != nil {
		return "", fmt.Errorf("nonce error: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Input that was not produced by a Cipher with the
// same key yields common.ErrInvalidCiphertext.
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", common.ErrInvalidCiphertext
	}

	if len(raw) < nonceSize+c.aead.Overhead() {
		return "", common.ErrInvalidCiphertext
	}

	plaintext, err := c.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", common.ErrInvalidCiphertext
	}

	return string(plaintext), nil
}

// EncryptString encrypts plaintext with a cipher built from key.
// Long-lived callers should build a Cipher once instead: key derivation is slow.
func EncryptString(plaintext, key string) (string, error) {
	c, err := NewCipher(key)
	if err != nil {
		return "", err
	}
	return c.Encrypt(plaintext)
}

// DecryptString decrypts ciphertext with a cipher built from key.
func DecryptString(ciphertext, key string) (string, error) {
	c, err := NewCipher(key)
	if err != nil {
		return "", err
	}
	return c.Decrypt(ciphertext)
}
