package promo

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

var (
	// ErrCodeRequired is returned when the submitted code is empty after
	// normalization.
	ErrCodeRequired = errors.New("promo code is required")
	// ErrInvalidOrExpired is returned when a code is unknown, inactive, or
	// past its expiry date. The three cases are deliberately indistinct so
	// the response does not leak which codes exist.
	ErrInvalidOrExpired = errors.New("invalid or expired promo code")
	// ErrUsageLimitReached is returned when a code has exhausted its
	// allowed redemptions.
	ErrUsageLimitReached = errors.New("promo code usage limit reached")
)

// Code is a redeemable promo code. Codes are stored upper-case and matched
// case-insensitively. PercentageDiscount lies in [1,100], enforced at
// creation time.
type Code struct {
	Code               string `json:"code"`
	PercentageDiscount int    `json:"percentage_discount"`
	// ExpiryDate is a calendar date; the code is valid through the end of
	// that day.
	ExpiryDate time.Time `json:"expiry_date"`
	IsActive   bool      `json:"is_active"`
	UsedCount  int       `json:"used_count"`
	// UsageLimit of zero means unlimited.
	UsageLimit int `json:"usage_limit,omitempty"`
}

// Repository provides lookup and mutation of promo codes.
type Repository interface {
	ListActive(ctx context.Context) ([]Code, error)
	FindByCode(ctx context.Context, code string) (*Code, error)
	Create(ctx context.Context, c *Code) error
	Delete(ctx context.Context, code string) error
	// IncrementUsage invokes the usage-counter stored procedure. It is
	// called once per completed order, never at validation time.
	IncrementUsage(ctx context.Context, code string) error
}

// Validate checks the fields an admin must supply when creating a code.
func (c *Code) Validate() error {
	if len(c.Code) < 3 || len(c.Code) > 50 {
		return errors.New("valid promo code required")
	}
	if c.PercentageDiscount < 1 || c.PercentageDiscount > 100 {
		return errors.New("discount must be between 1-100")
	}
	if c.ExpiryDate.IsZero() {
		return errors.New("valid expiry date required")
	}
	return nil
}
