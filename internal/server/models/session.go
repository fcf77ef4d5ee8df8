package models

import "time"

// Session proves that Token was issued by this server and is still honored.
type Session struct {
	ID        int64
	UserID    int64
	Token     string
	CreatedAt time.Time
}
