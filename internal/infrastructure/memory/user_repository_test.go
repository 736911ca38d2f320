package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-registration/internal/domain/entity"
)

func TestUserRepository_InsertAssignsIdentity(t *testing.T) {
	repo := NewUserRepository()
	u := &entity.User{Name: "Jennifer", Email: "jen@example.com", Password: "digest"}

	require.NoError(t, repo.Insert(context.Background(), u))
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, 0, u.Version)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := repo.GetByEmail(context.Background(), "jen@example.com")
	require.NoError(t, err)
	assert.Equal(t, *u, *got)
}

func TestUserRepository_DuplicateEmailLeavesOriginal(t *testing.T) {
	repo := NewUserRepository()
	first := &entity.User{Name: "Jennifer", Email: "jen@example.com", Password: "digest-1"}
	require.NoError(t, repo.Insert(context.Background(), first))

	second := &entity.User{Name: "Imposter", Email: "jen@example.com", Password: "digest-2"}
	err := repo.Insert(context.Background(), second)
	assert.ErrorIs(t, err, entity.ErrDuplicateKey)
	assert.Empty(t, second.ID)

	got, err := repo.GetByEmail(context.Background(), "jen@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Jennifer", got.Name)
	assert.Equal(t, "digest-1", got.Password)
	assert.Equal(t, 1, repo.Len())
}

func TestUserRepository_ConcurrentSameEmail(t *testing.T) {
	repo := NewUserRepository()
	var ok, dup atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Insert(context.Background(), &entity.User{Name: "n", Email: "race@example.com", Password: "d"})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, entity.ErrDuplicateKey):
				dup.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(31), dup.Load())
}

func TestUserRepository_NotFoundAndCanceled(t *testing.T) {
	repo := NewUserRepository()
	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, entity.ErrNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, repo.Insert(ctx, &entity.User{Email: "x@example.com"}), context.Canceled)
	assert.Equal(t, 0, repo.Len())
}
