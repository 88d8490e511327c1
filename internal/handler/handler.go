// Package handler exposes the storefront REST API over net/http.
package handler

import (
	"context"
	"net/http"

	"github.com/modenkate/storefront/internal/domain/auth"
	"github.com/modenkate/storefront/internal/domain/order"
	"github.com/modenkate/storefront/internal/domain/product"
	"github.com/modenkate/storefront/internal/domain/promo"
	"github.com/modenkate/storefront/internal/storage/postgres"
	"github.com/modenkate/storefront/pkg/httpmiddleware"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// DevMode controls whether infrastructure error detail is included in
	// 500 responses. Production responses carry a generic message only.
	DevMode bool
}

// Inventory is the admin-facing stock reporting store: alert and value
// views, sales analytics, the movement audit log, and manual restocks.
type Inventory interface {
	LowStock(ctx context.Context) ([]postgres.LowStockAlert, error)
	Value(ctx context.Context) ([]postgres.CategoryValue, error)
	Analytics(ctx context.Context) ([]postgres.ProductAnalytics, error)
	Movements(ctx context.Context) ([]postgres.StockMovement, error)
	Restock(ctx context.Context, productID string, quantity int) (*postgres.RestockResult, error)
}

// Handler implements the storefront REST API, delegating business logic to
// the domain services and repositories.
type Handler struct {
	products   product.Repository
	categories product.CategoryRepository
	promos     promo.Repository
	validator  promo.Validator
	orders     order.Repository
	placement  *order.Service
	inventory  Inventory
	auth       *auth.Service
	devMode    bool
}

// New constructs a Handler with the required domain dependencies.
func New(
	cfg Config,
	products product.Repository,
	categories product.CategoryRepository,
	promos promo.Repository,
	validator promo.Validator,
	orders order.Repository,
	placement *order.Service,
	inventory Inventory,
	authSvc *auth.Service,
) *Handler {
	return &Handler{
		products:   products,
		categories: categories,
		promos:     promos,
		validator:  validator,
		orders:     orders,
		placement:  placement,
		inventory:  inventory,
		auth:       authSvc,
		devMode:    cfg.DevMode,
	}
}

// Register mounts all API routes on mux. Order placement and admin login get
// their own rate limiters on top of the server-wide one.
func (h *Handler) Register(mux *http.ServeMux, orderLimit, loginLimit httpmiddleware.Middleware) {
	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("GET /api/products/{id}", h.getProduct)
	mux.HandleFunc("POST /api/products", h.requireAdmin(h.createProduct))
	mux.HandleFunc("PUT /api/products/{id}", h.requireAdmin(h.updateProduct))
	mux.HandleFunc("DELETE /api/products/{id}", h.requireAdmin(h.deleteProduct))

	mux.HandleFunc("GET /api/promo-codes", h.listPromoCodes)
	mux.HandleFunc("POST /api/promo-codes/validate", h.validatePromoCode)
	mux.HandleFunc("POST /api/promo-codes", h.requireAdmin(h.createPromoCode))
	mux.HandleFunc("DELETE /api/promo-codes/{code}", h.requireAdmin(h.deletePromoCode))

	mux.HandleFunc("GET /api/orders", h.requireAdmin(h.listOrders))
	mux.HandleFunc("GET /api/orders/{id}", h.getOrder)
	mux.Handle("POST /api/orders", orderLimit(http.HandlerFunc(h.placeOrder)))
	mux.HandleFunc("PATCH /api/orders/{id}/status", h.updateOrderStatus)

	mux.HandleFunc("GET /api/categories", h.listCategories)

	mux.Handle("POST /api/admin/login", loginLimit(http.HandlerFunc(h.adminLogin)))
	mux.HandleFunc("GET /api/admin/inventory/low-stock", h.requireAdmin(h.lowStock))
	mux.HandleFunc("GET /api/admin/inventory/value", h.requireAdmin(h.inventoryValue))
	mux.HandleFunc("GET /api/admin/inventory/analytics", h.requireAdmin(h.inventoryAnalytics))
	mux.HandleFunc("GET /api/admin/inventory/movements", h.requireAdmin(h.stockMovements))
	mux.HandleFunc("PATCH /api/admin/inventory/{id}/restock", h.requireAdmin(h.restock))
}
