package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-user-registration/internal/domain/entity"
	"github.com/oksasatya/go-user-registration/internal/domain/repository"
)

// UserRepository is an in-process users collection with a unique email
// index. It backs tests and STORE_DRIVER=memory.
type UserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]entity.User
	now     func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byEmail: make(map[string]entity.User), now: time.Now}
}

func (r *UserRepository) Insert(ctx context.Context, u *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[u.Email]; taken {
		return fmt.Errorf("%w: users_email_key", entity.ErrDuplicateKey)
	}
	u.ID = uuid.NewString()
	u.Version = 0
	u.CreatedAt = r.now().UTC()
	r.byEmail[u.Email] = *u
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return &u, nil
}

// Len reports the number of stored documents.
func (r *UserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byEmail)
}

var _ repository.UserRepository = (*UserRepository)(nil)
