package domain

import "time"

// User is the domain entity for a user account.
// Email keeps the case it was registered with.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
