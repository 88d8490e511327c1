package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/modenkate/storefront/internal/domain/order"
	"github.com/modenkate/storefront/internal/domain/product"
)

const (
	decrementInventorySQL = `SELECT decrement_inventory($1, $2)`

	lowStockSQL = `SELECT id, name, category, stock_quantity FROM low_stock_alert`

	inventoryValueSQL = `SELECT category, product_count, total_units, total_value FROM inventory_value`

	productAnalyticsSQL = `SELECT id, name, category, stock_quantity, units_sold, total_revenue, order_count
		FROM product_analytics ORDER BY total_revenue DESC`

	stockMovementsSQL = `SELECT id, product_id, change, movement_type, created_at
		FROM stock_movements
		WHERE created_at >= now() - INTERVAL '30 days'
		ORDER BY created_at DESC
		LIMIT 100`

	restockSQL = `WITH updated AS (
			UPDATE products SET stock_quantity = stock_quantity + $2
			WHERE id = $1
			RETURNING id, name, stock_quantity
		), logged AS (
			INSERT INTO stock_movements (product_id, change, movement_type)
			SELECT id, $2, 'restock' FROM updated
		)
		SELECT name, stock_quantity FROM updated`
)

// LowStockAlert is a product whose stock has fallen below the alert
// threshold.
type LowStockAlert struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	StockQuantity int    `json:"stock_quantity"`
}

// CategoryValue summarizes the inventory held for one category. TotalValue
// is a NUMERIC aggregate of price * stock across the category.
type CategoryValue struct {
	Category     string          `json:"category"`
	ProductCount int64           `json:"product_count"`
	TotalUnits   int64           `json:"total_units"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

// ProductAnalytics is one row of per-product sales performance. Revenue is
// a NUMERIC aggregate of snapshotted prices across order lines.
type ProductAnalytics struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	StockQuantity int             `json:"stock_quantity"`
	UnitsSold     int64           `json:"units_sold"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	OrderCount    int64           `json:"order_count"`
}

// StockMovement is one entry of the stock audit log. Change is negative for
// sales and positive for restocks.
type StockMovement struct {
	ID           int64     `json:"id"`
	ProductID    string    `json:"product_id"`
	Change       int       `json:"change"`
	MovementType string    `json:"movement_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// RestockResult reports a manual restock.
type RestockResult struct {
	ProductName string `json:"product_name"`
	Added       int    `json:"added"`
	NewStock    int    `json:"new_stock"`
}

var _ order.Inventory = (*InventoryRepository)(nil)

// InventoryRepository exposes the inventory stored procedure plus the admin
// stock views.
type InventoryRepository struct {
	pool *pgxpool.Pool
}

// NewInventoryRepository returns an InventoryRepository that uses the given pool.
func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

// DecrementStock invokes the decrement_inventory stored procedure. The
// procedure clamps at zero; it does not fail on underflow.
func (r *InventoryRepository) DecrementStock(ctx context.Context, productID string, quantity int) error {
	if _, err := r.pool.Exec(ctx, decrementInventorySQL, productID, quantity); err != nil {
		return fmt.Errorf("decrementing stock for %q: %w", productID, err)
	}
	return nil
}

// LowStock returns active products below the alert threshold.
func (r *InventoryRepository) LowStock(ctx context.Context) ([]LowStockAlert, error) {
	rows, err := r.pool.Query(ctx, lowStockSQL)
	if err != nil {
		return nil, fmt.Errorf("listing low stock: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (LowStockAlert, error) {
		var a LowStockAlert
		err := row.Scan(&a.ID, &a.Name, &a.Category, &a.StockQuantity)
		return a, err
	})
}

// Value returns the per-category inventory value summary.
func (r *InventoryRepository) Value(ctx context.Context) ([]CategoryValue, error) {
	rows, err := r.pool.Query(ctx, inventoryValueSQL)
	if err != nil {
		return nil, fmt.Errorf("summarizing inventory value: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (CategoryValue, error) {
		var v CategoryValue
		err := row.Scan(&v.Category, &v.ProductCount, &v.TotalUnits, &v.TotalValue)
		return v, err
	})
}

// Analytics returns per-product sales performance, highest revenue first.
func (r *InventoryRepository) Analytics(ctx context.Context) ([]ProductAnalytics, error) {
	rows, err := r.pool.Query(ctx, productAnalyticsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing product analytics: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (ProductAnalytics, error) {
		var a ProductAnalytics
		err := row.Scan(&a.ID, &a.Name, &a.Category, &a.StockQuantity,
			&a.UnitsSold, &a.TotalRevenue, &a.OrderCount)
		return a, err
	})
}

// Movements returns the stock audit log for the last 30 days, newest first,
// capped at 100 entries.
func (r *InventoryRepository) Movements(ctx context.Context) ([]StockMovement, error) {
	rows, err := r.pool.Query(ctx, stockMovementsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing stock movements: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (StockMovement, error) {
		var m StockMovement
		err := row.Scan(&m.ID, &m.ProductID, &m.Change, &m.MovementType, &m.CreatedAt)
		return m, err
	})
}

// Restock adds quantity units to a product's stock and logs the movement.
func (r *InventoryRepository) Restock(ctx context.Context, productID string, quantity int) (*RestockResult, error) {
	var res RestockResult
	err := r.pool.QueryRow(ctx, restockSQL, productID, quantity).
		Scan(&res.ProductName, &res.NewStock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("restocking %q: %w", productID, err)
	}
	res.Added = quantity
	return &res, nil
}
