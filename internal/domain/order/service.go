package order

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/modenkate/storefront/internal/domain/product"
)

// Sentinel errors for order validation.
var (
	ErrEmptyItems     = errors.New("order must contain at least one item")
	ErrMalformedOrder = errors.New("invalid order data")
)

// ProductNotFoundError indicates a requested product does not exist.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InsufficientStockError carries enough detail for the caller to show the
// shopper a specific message.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s. Available: %d, Requested: %d",
		e.ProductName, e.Available, e.Requested)
}

// Inventory invokes the stock-decrement stored procedure.
type Inventory interface {
	DecrementStock(ctx context.Context, productID string, quantity int) error
}

// PromoUsage invokes the promo usage-counter stored procedure.
type PromoUsage interface {
	IncrementUsage(ctx context.Context, code string) error
}

// PlaceRequest is the input for placing an order: a pre-priced header and
// the cart lines with their price snapshots. Any promo code referenced by
// the header has already been validated by the caller.
type PlaceRequest struct {
	Order Order
	Items []Item
}

// Service implements the order placement workflow.
type Service struct {
	products  product.Repository
	orders    Repository
	inventory Inventory
	promos    PromoUsage
}

// NewService creates an order Service with the required dependencies.
func NewService(products product.Repository, orders Repository, inventory Inventory, promos PromoUsage) *Service {
	return &Service{
		products:  products,
		orders:    orders,
		inventory: inventory,
		promos:    promos,
	}
}

// Place runs the order placement workflow:
//
//  1. Reject malformed input before any write.
//  2. Re-fetch stock for every line; unknown product or insufficient stock
//     aborts the whole order with no writes. This is the only strict gate.
//  3. Insert the order header. A failure here fails the operation.
//  4. Batch-insert the line items. A failure after step 3 leaves an orphan
//     header; this inconsistency is acknowledged, not rolled back.
//  5. Decrement inventory per line via stored procedure, best-effort.
//  6. Increment the promo usage counter once if a code was applied,
//     best-effort.
//
// Steps 5 and 6 log and swallow failures: the order is already committed
// and the customer is not informed, so inventory and usage counts may
// drift. Placement is not idempotent; resubmitting creates a new order.
func (s *Service) Place(ctx context.Context, req PlaceRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if err := validateHeader(&req.Order); err != nil {
		return nil, err
	}

	// Strict precondition gate: every line must be in stock right now.
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, ErrMalformedOrder
		}
		info, err := s.products.GetStock(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return nil, &ProductNotFoundError{ProductID: item.ProductID}
			}
			return nil, errors.Wrapf(err, "check stock for %s", item.ProductID)
		}
		if info.StockQuantity < item.Quantity {
			return nil, &InsufficientStockError{
				ProductID:   item.ProductID,
				ProductName: info.Name,
				Available:   info.StockQuantity,
				Requested:   item.Quantity,
			}
		}
	}

	o := req.Order
	o.ID = uuid.New().String()
	o.Status = StatusPending

	if err := s.orders.Create(ctx, &o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	if err := s.orders.CreateItems(ctx, o.ID, req.Items); err != nil {
		// The header is already committed; the order is now an orphan.
		return nil, errors.Wrapf(err, "create items for order %s", o.ID)
	}

	lg := zctx.From(ctx)
	for _, item := range req.Items {
		if err := s.inventory.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			lg.Error("inventory decrement failed",
				zap.String("order_id", o.ID),
				zap.String("product_id", item.ProductID),
				zap.Int("quantity", item.Quantity),
				zap.Error(err),
			)
		}
	}

	if o.PromoCode != "" {
		if err := s.promos.IncrementUsage(ctx, o.PromoCode); err != nil {
			lg.Error("promo usage increment failed",
				zap.String("order_id", o.ID),
				zap.String("promo_code", o.PromoCode),
				zap.Error(err),
			)
		}
	}

	return &o, nil
}

// validateHeader rejects headers that cannot represent a placeable order.
func validateHeader(o *Order) error {
	if o.PaymentMethod == "" {
		o.PaymentMethod = PaymentCashOnDelivery
	}
	if o.PaymentMethod != PaymentCashOnDelivery {
		return ErrMalformedOrder
	}
	// Owning user and guest contact info are mutually exclusive.
	if (o.UserID == "") == (o.Guest == nil) {
		return ErrMalformedOrder
	}
	if o.Guest != nil && (o.Guest.Name == "" || o.Guest.Address == "") {
		return ErrMalformedOrder
	}
	if o.Subtotal < 0 || o.DeliveryCharge < 0 || o.DiscountAmount < 0 || o.TotalAmount < 0 {
		return ErrMalformedOrder
	}
	return nil
}
