package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/modenkate/storefront/internal/domain/auth"
)

const findActiveAdminSQL = `SELECT id, email, name, password_hash, role, is_active
	FROM users WHERE email = $1 AND role = 'admin' AND is_active`

var _ auth.Repository = (*UserRepository)(nil)

// UserRepository implements auth.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// FindActiveAdmin returns the active admin account with the given email.
// A missing row maps to auth.ErrInvalidCredentials so callers cannot
// distinguish unknown accounts from wrong passwords.
func (r *UserRepository) FindActiveAdmin(ctx context.Context, email string) (*auth.User, error) {
	var u auth.User
	err := r.pool.QueryRow(ctx, findActiveAdminSQL, email).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("finding admin %q: %w", email, err)
	}
	return &u, nil
}
