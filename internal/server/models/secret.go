// Package models defines server-side data models persisted in the database.
package models

import "time"

// Credential is a stored site login. Password is ciphertext at rest and
// plaintext once a service has decrypted it for the owner.
type Credential struct {
	ID        int64
	UserID    int64
	Title     string
	URL       string
	Username  string
	Password  string
	CreatedAt time.Time
}

// Network is a stored Wi-Fi entry. Password follows the same contract as
// Credential.Password.
type Network struct {
	ID        int64
	UserID    int64
	Title     string
	Network   string
	Password  string
	CreatedAt time.Time
}
