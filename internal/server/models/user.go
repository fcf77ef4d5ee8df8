package models

import "time"

// User is an account identified by a unique e-mail. Password holds the bcrypt
// hash and is never returned to API callers.
type User struct {
	ID        int64
	Email     string
	Password  string
	CreatedAt time.Time
}
