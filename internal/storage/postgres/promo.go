package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/modenkate/storefront/internal/domain/promo"
)

const (
	promoColumns = `code, percentage_discount, expiry_date, is_active, used_count, COALESCE(usage_limit, 0)`

	listActivePromosSQL = `SELECT ` + promoColumns + ` FROM promo_codes
		WHERE is_active AND expiry_date >= CURRENT_DATE ORDER BY code`

	findPromoByCodeSQL = `SELECT ` + promoColumns + ` FROM promo_codes WHERE code = UPPER($1)`

	insertPromoSQL = `INSERT INTO promo_codes
		(code, percentage_discount, expiry_date, is_active, usage_limit)
		VALUES (UPPER($1), $2, $3, $4, NULLIF($5, 0))`

	upsertPromoCodeSQL = insertPromoSQL + `
		ON CONFLICT (code) DO UPDATE SET
			percentage_discount = EXCLUDED.percentage_discount,
			expiry_date = EXCLUDED.expiry_date,
			is_active = EXCLUDED.is_active,
			usage_limit = EXCLUDED.usage_limit`

	deletePromoSQL = `DELETE FROM promo_codes WHERE code = UPPER($1)`

	incrementPromoUsageSQL = `SELECT increment_promo_usage($1)`
)

var _ promo.Repository = (*PromoRepository)(nil)

// PromoRepository implements promo.Repository backed by PostgreSQL.
type PromoRepository struct {
	pool *pgxpool.Pool
}

// NewPromoRepository returns a PromoRepository that uses the given pool.
func NewPromoRepository(pool *pgxpool.Pool) *PromoRepository {
	return &PromoRepository{pool: pool}
}

// ListActive returns active, unexpired codes ordered by code.
func (r *PromoRepository) ListActive(ctx context.Context) ([]promo.Code, error) {
	rows, err := r.pool.Query(ctx, listActivePromosSQL)
	if err != nil {
		return nil, fmt.Errorf("listing promo codes: %w", err)
	}
	return pgx.CollectRows(rows, scanPromo)
}

// FindByCode looks up a code case-insensitively; the SQL applies UPPER()
// to the parameter. Returns promo.ErrInvalidOrExpired when no row matches.
func (r *PromoRepository) FindByCode(ctx context.Context, code string) (*promo.Code, error) {
	rows, err := r.pool.Query(ctx, findPromoByCodeSQL, code)
	if err != nil {
		return nil, fmt.Errorf("finding promo code %q: %w", code, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanPromo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, promo.ErrInvalidOrExpired
		}
		return nil, fmt.Errorf("finding promo code %q: %w", code, err)
	}
	return &c, nil
}

// Create inserts a new promo code, upper-casing it on the way in.
func (r *PromoRepository) Create(ctx context.Context, c *promo.Code) error {
	_, err := r.pool.Exec(ctx, insertPromoSQL,
		c.Code, c.PercentageDiscount, c.ExpiryDate, c.IsActive, c.UsageLimit,
	)
	if err != nil {
		return fmt.Errorf("creating promo code %q: %w", c.Code, err)
	}
	return nil
}

// Upsert inserts a promo code or replaces the existing row's rule fields,
// leaving used_count untouched. Used by seeding, which must be safe to
// re-run.
func (r *PromoRepository) Upsert(ctx context.Context, c *promo.Code) error {
	_, err := r.pool.Exec(ctx, upsertPromoCodeSQL,
		c.Code, c.PercentageDiscount, c.ExpiryDate, c.IsActive, c.UsageLimit,
	)
	if err != nil {
		return fmt.Errorf("upserting promo code %q: %w", c.Code, err)
	}
	return nil
}

// Delete removes a promo code.
func (r *PromoRepository) Delete(ctx context.Context, code string) error {
	tag, err := r.pool.Exec(ctx, deletePromoSQL, code)
	if err != nil {
		return fmt.Errorf("deleting promo code %q: %w", code, err)
	}
	if tag.RowsAffected() == 0 {
		return promo.ErrInvalidOrExpired
	}
	return nil
}

// IncrementUsage invokes the usage-counter stored procedure.
func (r *PromoRepository) IncrementUsage(ctx context.Context, code string) error {
	if _, err := r.pool.Exec(ctx, incrementPromoUsageSQL, code); err != nil {
		return fmt.Errorf("incrementing usage for %q: %w", code, err)
	}
	return nil
}

func scanPromo(row pgx.CollectableRow) (promo.Code, error) {
	var c promo.Code
	err := row.Scan(
		&c.Code, &c.PercentageDiscount, &c.ExpiryDate,
		&c.IsActive, &c.UsedCount, &c.UsageLimit,
	)
	return c, err
}
