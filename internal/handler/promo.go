package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"

	"github.com/modenkate/storefront/internal/domain/promo"
)

// promoResponse is the wire form of a promo code. Expiry is rendered as a
// calendar date, not a timestamp.
type promoResponse struct {
	Code               string `json:"code"`
	PercentageDiscount int    `json:"percentage_discount"`
	ExpiryDate         string `json:"expiry_date"`
	IsActive           bool   `json:"is_active"`
	UsedCount          int    `json:"used_count"`
	UsageLimit         int    `json:"usage_limit,omitempty"`
}

func toPromoResponse(c *promo.Code) promoResponse {
	return promoResponse{
		Code:               c.Code,
		PercentageDiscount: c.PercentageDiscount,
		ExpiryDate:         c.ExpiryDate.Format("2006-01-02"),
		IsActive:           c.IsActive,
		UsedCount:          c.UsedCount,
		UsageLimit:         c.UsageLimit,
	}
}

func (h *Handler) listPromoCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.promos.ListActive(r.Context())
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	out := make([]promoResponse, len(codes))
	for i := range codes {
		out[i] = toPromoResponse(&codes[i])
	}
	respondJSON(w, http.StatusOK, out)
}

// validatePromoCode checks a submitted code against the cart subtotal and
// returns the matched code with the computed discount. No usage counter is
// touched here.
func (h *Handler) validatePromoCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code     string `json:"code"`
		Subtotal int64  `json:"subtotal"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	c, discount, err := h.validator.Validate(r.Context(), req.Code, req.Subtotal)
	if err != nil {
		switch {
		case errors.Is(err, promo.ErrCodeRequired):
			respondError(w, http.StatusBadRequest, "Promo code is required")
		case errors.Is(err, promo.ErrInvalidOrExpired):
			respondError(w, http.StatusNotFound, "Invalid or expired promo code")
		case errors.Is(err, promo.ErrUsageLimitReached):
			respondError(w, http.StatusBadRequest, "Promo code usage limit reached")
		default:
			h.respondInternal(w, r, err)
		}
		return
	}

	respondJSON(w, http.StatusOK, struct {
		promoResponse
		Discount int64 `json:"discount"`
	}{toPromoResponse(c), discount})
}

func (h *Handler) createPromoCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code               string `json:"code"`
		PercentageDiscount int    `json:"percentage_discount"`
		ExpiryDate         string `json:"expiry_date"`
		UsageLimit         int    `json:"usage_limit,omitempty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "valid expiry date required")
		return
	}

	c := promo.Code{
		Code:               promo.Normalize(req.Code),
		PercentageDiscount: req.PercentageDiscount,
		ExpiryDate:         expiry,
		IsActive:           true,
		UsageLimit:         req.UsageLimit,
	}
	if err := c.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.promos.Create(r.Context(), &c); err != nil {
		h.respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toPromoResponse(&c))
}

func (h *Handler) deletePromoCode(w http.ResponseWriter, r *http.Request) {
	if err := h.promos.Delete(r.Context(), r.PathValue("code")); err != nil {
		if errors.Is(err, promo.ErrInvalidOrExpired) {
			respondError(w, http.StatusNotFound, "Promo code not found")
			return
		}
		h.respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Promo code deleted successfully"})
}
