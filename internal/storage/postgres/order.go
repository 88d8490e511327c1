package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/modenkate/storefront/internal/domain/order"
)

// ErrOrderNotFound is returned when a requested order does not exist.
var ErrOrderNotFound = errors.New("order not found")

const (
	orderColumns = `id, COALESCE(user_id, ''), guest_info, subtotal, delivery_charge,
		discount_amount, COALESCE(promo_code, ''), total_amount, payment_method, status, created_at`

	insertOrderSQL = `INSERT INTO orders
		(id, user_id, guest_info, subtotal, delivery_charge, discount_amount, promo_code, total_amount, payment_method, status)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10)`

	getOrderSQL = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	listOrdersSQL = `SELECT ` + orderColumns + ` FROM orders
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	countOrdersSQL = `SELECT COUNT(*) FROM orders`

	updateOrderStatusSQL = `UPDATE orders SET status = $2 WHERE id = $1`

	itemColumns = `order_id, product_id, product_name, product_image, price_at_purchase, quantity`

	getOrderItemsSQL = `SELECT ` + itemColumns + ` FROM order_items WHERE order_id = $1 ORDER BY id`

	getItemsForOrdersSQL = `SELECT ` + itemColumns + ` FROM order_items
		WHERE order_id = ANY($1) ORDER BY id`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists the order header. Guest contact info is serialized into
// the JSONB column.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	var guest []byte
	if o.Guest != nil {
		b, err := json.Marshal(o.Guest)
		if err != nil {
			return fmt.Errorf("marshaling guest info: %w", err)
		}
		guest = b
	}

	_, err := r.pool.Exec(ctx, insertOrderSQL,
		o.ID, o.UserID, guest, o.Subtotal, o.DeliveryCharge,
		o.DiscountAmount, o.PromoCode, o.TotalAmount, string(o.PaymentMethod), o.Status,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

// CreateItems batch-inserts the line items for an order.
func (r *OrderRepository) CreateItems(ctx context.Context, orderID string, items []order.Item) error {
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(
			`INSERT INTO order_items (order_id, product_id, product_name, product_image, price_at_purchase, quantity)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			orderID, item.ProductID, item.ProductName, item.ProductImage,
			item.PriceAtPurchase, item.Quantity,
		)
	}
	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("creating items for order %q: %w", orderID, err)
	}
	return nil
}

// GetWithItems returns one order together with its line items.
func (r *OrderRepository) GetWithItems(ctx context.Context, id string) (*order.OrderWithItems, error) {
	rows, err := r.pool.Query(ctx, getOrderSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	itemRows, err := r.pool.Query(ctx, getOrderItemsSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting items for order %q: %w", id, err)
	}
	items, err := pgx.CollectRows(itemRows, scanItem)
	if err != nil {
		return nil, fmt.Errorf("getting items for order %q: %w", id, err)
	}

	return &order.OrderWithItems{Order: o, Items: items}, nil
}

// List returns one page of orders, newest first, with their items.
func (r *OrderRepository) List(ctx context.Context, page, limit int) (*order.Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	var total int
	if err := r.pool.QueryRow(ctx, countOrdersSQL).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting orders: %w", err)
	}

	rows, err := r.pool.Query(ctx, listOrdersSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	headers, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	ids := make([]string, len(headers))
	for i, o := range headers {
		ids[i] = o.ID
	}
	byOrder := map[string][]order.Item{}
	if len(ids) > 0 {
		itemRows, err := r.pool.Query(ctx, getItemsForOrdersSQL, ids)
		if err != nil {
			return nil, fmt.Errorf("listing order items: %w", err)
		}
		items, err := pgx.CollectRows(itemRows, scanItem)
		if err != nil {
			return nil, fmt.Errorf("listing order items: %w", err)
		}
		for _, item := range items {
			byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
		}
	}

	result := make([]order.OrderWithItems, len(headers))
	for i, o := range headers {
		result[i] = order.OrderWithItems{Order: o, Items: byOrder[o.ID]}
	}

	totalPages := (total + limit - 1) / limit
	return &order.Page{
		Orders:     result,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// UpdateStatus sets the status of an order and returns the updated header.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id, status string) (*order.Order, error) {
	tag, err := r.pool.Exec(ctx, updateOrderStatusSQL, id, status)
	if err != nil {
		return nil, fmt.Errorf("updating status for order %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrOrderNotFound
	}

	rows, err := r.pool.Query(ctx, getOrderSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	return &o, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o     order.Order
		guest []byte
		pm    string
	)
	err := row.Scan(
		&o.ID, &o.UserID, &guest, &o.Subtotal, &o.DeliveryCharge,
		&o.DiscountAmount, &o.PromoCode, &o.TotalAmount, &pm, &o.Status, &o.CreatedAt,
	)
	if err != nil {
		return o, err
	}
	o.PaymentMethod = order.PaymentMethod(pm)
	if len(guest) > 0 {
		var g order.GuestInfo
		if err := json.Unmarshal(guest, &g); err != nil {
			return o, fmt.Errorf("unmarshaling guest info: %w", err)
		}
		o.Guest = &g
	}
	return o, nil
}

func scanItem(row pgx.CollectableRow) (order.Item, error) {
	var item order.Item
	err := row.Scan(
		&item.OrderID, &item.ProductID, &item.ProductName,
		&item.ProductImage, &item.PriceAtPurchase, &item.Quantity,
	)
	return item, err
}
