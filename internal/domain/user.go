package domain

import "time"

// User is a registered account.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Nickname     string    `json:"nickname" db:"nickname"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
