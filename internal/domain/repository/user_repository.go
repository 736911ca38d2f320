package repository

import (
	"context"

	"github.com/oksasatya/go-user-registration/internal/domain/entity"
)

// UserRepository defines the persistence port for user documents.
// Insert fills in ID, Version and CreatedAt on success and returns
// entity.ErrDuplicateKey when the email is already taken.
type UserRepository interface {
	Insert(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
