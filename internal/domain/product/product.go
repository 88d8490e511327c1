package product

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Badge marks a product for special presentation in the storefront.
type Badge string

const (
	BadgeNewArrival Badge = "New Arrival"
	BadgeBestSeller Badge = "Best Seller"
	BadgeSale       Badge = "Sale"
)

// Product is a catalog item. Price is in the store's minor currency unit;
// all currency arithmetic in the system is integer arithmetic.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Price         int64    `json:"price"`
	Image         string   `json:"image"`
	Images        []string `json:"images,omitempty"`
	Badge         Badge    `json:"badge,omitempty"`
	Specs         []string `json:"specs,omitempty"`
	Colors        []string `json:"colors,omitempty"`
	Description   string   `json:"description,omitempty"`
	StockQuantity int      `json:"stock_quantity"`
	IsActive      bool     `json:"is_active"`
}

// StockInfo is the per-product snapshot the order workflow re-fetches before
// committing any writes.
type StockInfo struct {
	Name          string
	Image         string
	StockQuantity int
}

// Category groups products in the storefront navigation.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	ListActive(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetStock(ctx context.Context, id string) (*StockInfo, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}

// CategoryRepository lists active storefront categories.
type CategoryRepository interface {
	ListActive(ctx context.Context) ([]Category, error)
}

// Validate checks the fields an admin must supply when creating or editing
// a product.
func (p *Product) Validate() error {
	if p.Name == "" {
		return errors.New("product name is required")
	}
	if p.Category == "" {
		return errors.New("category is required")
	}
	if p.Price < 0 {
		return errors.New("price must be a positive number")
	}
	if p.StockQuantity < 0 {
		return errors.New("stock must be a positive number")
	}
	switch p.Badge {
	case "", BadgeNewArrival, BadgeBestSeller, BadgeSale:
	default:
		return errors.Errorf("unknown badge %q", p.Badge)
	}
	return nil
}
