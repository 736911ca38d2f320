package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-user-registration/internal/domain/entity"
	"github.com/oksasatya/go-user-registration/internal/domain/repository"
)

const uniqueViolation = "23505"

// userDocument is the JSONB body stored in users.doc.
type userDocument struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserRepository stores users as JSONB documents in the users collection.
// A nil pool means the store never connected; every call then fails with
// entity.ErrConnectivity.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Insert(ctx context.Context, u *entity.User) error {
	if r.pool == nil {
		return fmt.Errorf("%w: no database connection", entity.ErrConnectivity)
	}
	doc, err := json.Marshal(userDocument{Name: u.Name, Email: u.Email, Password: u.Password})
	if err != nil {
		return err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (doc)
		VALUES ($1)
		RETURNING id::text, version, created_at
	`, doc)

	if err := row.Scan(&u.ID, &u.Version, &u.CreatedAt); err != nil {
		return classifyError(err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("%w: no database connection", entity.ErrConnectivity)
	}
	u := &entity.User{}
	var raw []byte

	row := r.pool.QueryRow(ctx, `
		SELECT id::text, doc, version, created_at
		FROM users
		WHERE doc ->> 'email' = $1
	`, email)

	if err := row.Scan(&u.ID, &raw, &u.Version, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, classifyError(err)
	}

	var doc userDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", u.ID, err)
	}
	u.Name, u.Email, u.Password = doc.Name, doc.Email, doc.Password
	return u, nil
}

// classifyError maps driver errors onto the domain taxonomy. Server-side
// errors other than unique violations pass through unchanged; anything that
// never reached the server is treated as a connectivity failure.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", entity.ErrDuplicateKey, pgErr.ConstraintName)
		}
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", entity.ErrConnectivity, err)
}

var _ repository.UserRepository = (*UserRepository)(nil)
