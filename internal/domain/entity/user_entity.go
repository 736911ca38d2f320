package entity

import (
	"time"
)

// User is the aggregate root for the registration domain.
// Password always holds the bcrypt digest, never the plain text.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// UserInput is the candidate submitted on registration.
type UserInput struct {
	Name     string `json:"name" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

// PasswordHasher turns a plain-text secret into a one-way digest.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}
