package handler

import (
	"fmt"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/modenkate/storefront/internal/domain/auth"
	"github.com/modenkate/storefront/internal/domain/product"
)

// adminLogin exchanges a credential pair for a signed bearer token.
func (h *Handler) adminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Username) < 3 || len(req.Password) < 5 {
		respondError(w, http.StatusBadRequest, "Invalid credentials format")
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.respondInternal(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]string{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.inventory.LowStock(r.Context())
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, alerts)
}

func (h *Handler) inventoryValue(w http.ResponseWriter, r *http.Request) {
	values, err := h.inventory.Value(r.Context())
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, values)
}

func (h *Handler) inventoryAnalytics(w http.ResponseWriter, r *http.Request) {
	rows, err := h.inventory.Analytics(r.Context())
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

func (h *Handler) stockMovements(w http.ResponseWriter, r *http.Request) {
	moves, err := h.inventory.Movements(r.Context())
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, moves)
}

func (h *Handler) restock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "Quantity must be positive")
		return
	}

	res, err := h.inventory.Restock(r.Context(), r.PathValue("id"), req.Quantity)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		h.respondInternal(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message":   fmt.Sprintf("Stock updated: %s restocked with %d units", res.ProductName, res.Added),
		"new_stock": res.NewStock,
	})
}
