// Package common defines shared constants and sentinel errors used across
// the server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors for malformed or missing input.
	ErrorValidation = errors.New("validation error")

	// Uniqueness violations.
	ErrDuplicatedEmail = errors.New("there is already an user with given email")
	ErrDuplicatedTitle = errors.New("there is already a record with given title")

	// Sign-in errors. Unknown e-mail and wrong password are reported the same way.
	ErrInvalidCredentials = errors.New("email or password are incorrect")

	// Auth errors (invalid or malformed token, or a token whose session
	// was removed by sign-out).
	ErrInvalidToken    = errors.New("invalid token")
	ErrSessionNotFound = errors.New("session not found")

	// Cipher errors.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
)
