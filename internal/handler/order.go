package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/errors"

	"github.com/modenkate/storefront/internal/domain/order"
	"github.com/modenkate/storefront/internal/storage/postgres"
)

// placeOrderRequest mirrors the {order, items} checkout payload.
type placeOrderRequest struct {
	Order *order.Order `json:"order"`
	Items []order.Item `json:"items"`
}

// placeOrder runs the checkout workflow and maps its error taxonomy onto
// HTTP statuses: malformed input 400, unknown product 404, insufficient
// stock 400 with available/requested detail.
func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Order == nil || len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "Invalid order data")
		return
	}

	created, err := h.placement.Place(r.Context(), order.PlaceRequest{
		Order: *req.Order,
		Items: req.Items,
	})
	if err != nil {
		var (
			notFound *order.ProductNotFoundError
			noStock  *order.InsufficientStockError
		)
		switch {
		case errors.Is(err, order.ErrEmptyItems), errors.Is(err, order.ErrMalformedOrder):
			respondError(w, http.StatusBadRequest, "Invalid order data")
		case errors.As(err, &notFound):
			respondError(w, http.StatusNotFound, notFound.Error())
		case errors.As(err, &noStock):
			respondError(w, http.StatusBadRequest, noStock.Error())
		default:
			h.respondInternal(w, r, err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetWithItems(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, postgres.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		h.respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.orders.List(r.Context(), page, limit)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"orders": result.Orders,
		"pagination": map[string]int{
			"page":       result.Page,
			"limit":      result.Limit,
			"total":      result.Total,
			"totalPages": result.TotalPages,
		},
	})
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Status == "" {
		respondError(w, http.StatusBadRequest, "status is required")
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		if errors.Is(err, postgres.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		h.respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}
