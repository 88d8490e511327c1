package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/modenkate/storefront/internal/domain/auth"
)

// identityKey is the context key for the authenticated admin identity.
type identityKey struct{}

// IdentityFromContext returns the authenticated identity stored by
// requireAdmin, or nil outside an authenticated request.
func IdentityFromContext(ctx context.Context) *auth.Identity {
	id, _ := ctx.Value(identityKey{}).(*auth.Identity)
	return id
}

// requireAdmin authenticates the bearer token and checks the admin role.
// A missing or invalid token yields 401; a valid token without the admin
// role yields 403.
func (h *Handler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, "No token provided")
			return
		}

		id, err := h.auth.Verify(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		if id.Role != auth.RoleAdmin {
			respondError(w, http.StatusForbidden, "Admin access required")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey{}, id)
		next(w, r.WithContext(ctx))
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}
