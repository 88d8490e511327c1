package order

import (
	"context"
	"time"
)

// PaymentMethod enumerates supported payment methods. Only cash on delivery
// is implemented.
type PaymentMethod string

// PaymentCashOnDelivery is the sole supported payment method.
const PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"

// StatusPending is the status every order is created with. Status is
// free-text afterwards, mutated by staff.
const StatusPending = "pending"

// GuestInfo is the embedded contact block for orders placed without a
// shopper account.
type GuestInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address"`
}

// Order is the persisted order header. Exactly one of UserID and Guest is
// set. All amounts are integers in the store's minor currency unit.
type Order struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id,omitempty"`
	Guest          *GuestInfo    `json:"guest_info,omitempty"`
	Subtotal       int64         `json:"subtotal"`
	DeliveryCharge int64         `json:"delivery_charge"`
	DiscountAmount int64         `json:"discount_amount"`
	PromoCode      string        `json:"promo_code,omitempty"`
	TotalAmount    int64         `json:"total_amount"`
	PaymentMethod  PaymentMethod `json:"payment_method"`
	Status         string        `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Item is an order line. Name, image, and price are snapshotted from the
// cart at submission time and never mutated afterwards, so later product
// edits do not alter historical orders.
type Item struct {
	OrderID         string `json:"order_id,omitempty"`
	ProductID       string `json:"product_id"`
	ProductName     string `json:"product_name"`
	ProductImage    string `json:"product_image,omitempty"`
	PriceAtPurchase int64  `json:"price_at_purchase"`
	Quantity        int    `json:"quantity"`
}

// Page is one page of the admin order listing.
type Page struct {
	Orders     []OrderWithItems `json:"orders"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Total      int              `json:"total"`
	TotalPages int              `json:"totalPages"`
}

// OrderWithItems bundles an order header with its line items.
type OrderWithItems struct {
	Order
	Items []Item `json:"items"`
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	CreateItems(ctx context.Context, orderID string, items []Item) error
	GetWithItems(ctx context.Context, id string) (*OrderWithItems, error)
	List(ctx context.Context, page, limit int) (*Page, error)
	UpdateStatus(ctx context.Context, id, status string) (*Order, error)
}
