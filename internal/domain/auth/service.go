package auth

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long an issued bearer token remains valid.
const TokenTTL = 24 * time.Hour

// Claims is the JWT payload carried by admin bearer tokens.
type Claims struct {
	Identity
	jwt.RegisteredClaims
}

// Service exchanges admin credentials for signed bearer tokens and verifies
// presented tokens.
type Service struct {
	users  Repository
	secret []byte
	now    func() time.Time
}

// NewService creates an auth Service signing tokens with the given secret.
func NewService(users Repository, secret []byte) *Service {
	return &Service{users: users, secret: secret, now: time.Now}
}

// Login verifies the credential pair against the stored bcrypt hash and
// returns a signed token together with the matched account.
func (s *Service) Login(ctx context.Context, username, password string) (string, *User, error) {
	u, err := s.users.FindActiveAdmin(ctx, username)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, errors.Wrap(err, "find admin")
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := s.now()
	claims := Claims{
		Identity: Identity{ID: u.ID, Email: u.Email, Role: u.Role},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, errors.Wrap(err, "sign token")
	}
	return token, u, nil
}

// Verify parses and validates a bearer token, returning the identity it
// carries. Any parse, signature, or expiry failure maps to ErrInvalidToken.
func (s *Service) Verify(token string) (*Identity, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return &claims.Identity, nil
}
