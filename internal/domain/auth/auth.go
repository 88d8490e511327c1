package auth

import (
	"context"

	"github.com/go-faster/errors"
)

// RoleAdmin is the role required for admin-only routes.
const RoleAdmin = "admin"

var (
	// ErrInvalidCredentials is returned for both unknown accounts and wrong
	// passwords, so login responses do not reveal which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken covers missing, malformed, mis-signed, and expired
	// bearer tokens.
	ErrInvalidToken = errors.New("invalid token")
)

// User is a server-side account. Shopper-facing login is a client-only
// placeholder identity; only admin accounts are verified here.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	IsActive     bool
}

// Identity is the authenticated principal carried by a verified token.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Repository provides lookup of admin accounts.
type Repository interface {
	// FindActiveAdmin returns the active admin account with the given
	// email, or ErrInvalidCredentials when none exists.
	FindActiveAdmin(ctx context.Context, email string) (*User, error)
}
