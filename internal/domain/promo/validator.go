package promo

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Validator validates a promo code against a cart subtotal and returns the
// matched code together with the computed discount amount.
type Validator interface {
	Validate(ctx context.Context, code string, subtotal int64) (*Code, int64, error)
}

// RepoValidator implements Validator by looking up codes in a Repository.
// Validation has no side effects: the usage counter is incremented only as
// part of a completed order, so a validated-but-abandoned code is not
// penalized.
type RepoValidator struct {
	repo Repository
	now  func() time.Time
}

// NewRepoValidator creates a RepoValidator backed by the given Repository.
func NewRepoValidator(repo Repository) *RepoValidator {
	return &RepoValidator{repo: repo, now: time.Now}
}

// Validate normalizes the submitted code, checks the active/expiry/usage
// predicates, and computes the truncated percentage discount.
func (v *RepoValidator) Validate(ctx context.Context, code string, subtotal int64) (*Code, int64, error) {
	normalized := Normalize(code)
	if normalized == "" {
		return nil, 0, ErrCodeRequired
	}

	c, err := v.repo.FindByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, ErrInvalidOrExpired) {
			return nil, 0, ErrInvalidOrExpired
		}
		return nil, 0, errors.Wrap(err, "lookup promo code")
	}

	if !c.IsActive || expired(c.ExpiryDate, v.now()) {
		return nil, 0, ErrInvalidOrExpired
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return nil, 0, ErrUsageLimitReached
	}

	return c, c.Discount(subtotal), nil
}

// expired reports whether the calendar date of expiry is before today.
// A code expiring today is still valid for the whole day.
func expired(expiry, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)
	return day.Before(today)
}
