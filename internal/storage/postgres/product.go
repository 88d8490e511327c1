package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/modenkate/storefront/internal/domain/product"
)

const (
	productColumns = `id, name, category, price, image, images, COALESCE(badge, ''),
		specs, colors, COALESCE(description, ''), stock_quantity, is_active`

	listActiveProductsSQL = `SELECT ` + productColumns + ` FROM products
		WHERE is_active ORDER BY created_at DESC`

	getProductByIDSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	getProductStockSQL = `SELECT name, image, stock_quantity FROM products WHERE id = $1`

	insertProductSQL = `INSERT INTO products
		(id, name, category, price, image, images, badge, specs, colors, description, stock_quantity, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, NULLIF($10, ''), $11, $12)`

	upsertProductSQL = insertProductSQL + `
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, category = EXCLUDED.category, price = EXCLUDED.price,
			image = EXCLUDED.image, images = EXCLUDED.images, badge = EXCLUDED.badge,
			specs = EXCLUDED.specs, colors = EXCLUDED.colors, description = EXCLUDED.description,
			stock_quantity = EXCLUDED.stock_quantity, is_active = EXCLUDED.is_active`

	updateProductSQL = `UPDATE products SET
		name = $2, category = $3, price = $4, image = $5, images = $6,
		badge = NULLIF($7, ''), specs = $8, colors = $9, description = NULLIF($10, ''),
		stock_quantity = $11, is_active = $12
		WHERE id = $1`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`

	listActiveCategoriesSQL = `SELECT id, name, is_active FROM categories WHERE is_active ORDER BY name`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// ListActive returns active products, newest first.
func (r *ProductRepository) ListActive(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listActiveProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// GetStock returns the current stock snapshot for a product.
func (r *ProductRepository) GetStock(ctx context.Context, id string) (*product.StockInfo, error) {
	var info product.StockInfo
	err := r.pool.QueryRow(ctx, getProductStockSQL, id).
		Scan(&info.Name, &info.Image, &info.StockQuantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting stock for %q: %w", id, err)
	}
	return &info, nil
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	if err := r.write(ctx, insertProductSQL, p); err != nil {
		return fmt.Errorf("creating product %q: %w", p.ID, err)
	}
	return nil
}

// Upsert inserts a product or replaces the existing row with the same id.
// Used by seeding, which must be safe to re-run.
func (r *ProductRepository) Upsert(ctx context.Context, p *product.Product) error {
	if err := r.write(ctx, upsertProductSQL, p); err != nil {
		return fmt.Errorf("upserting product %q: %w", p.ID, err)
	}
	return nil
}

func (r *ProductRepository) write(ctx context.Context, sql string, p *product.Product) error {
	images, specs, colors, err := marshalProductLists(p)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, sql,
		p.ID, p.Name, p.Category, p.Price, p.Image, images,
		string(p.Badge), specs, colors, p.Description, p.StockQuantity, p.IsActive,
	)
	return err
}

// Update rewrites all editable fields of a product.
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	images, specs, colors, err := marshalProductLists(p)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, updateProductSQL,
		p.ID, p.Name, p.Category, p.Price, p.Image, images,
		string(p.Badge), specs, colors, p.Description, p.StockQuantity, p.IsActive,
	)
	if err != nil {
		return fmt.Errorf("updating product %q: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// Delete removes a product.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return fmt.Errorf("deleting product %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		p                     product.Product
		badge                 string
		images, specs, colors []byte
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Category, &p.Price, &p.Image, &images, &badge,
		&specs, &colors, &p.Description, &p.StockQuantity, &p.IsActive,
	)
	if err != nil {
		return p, err
	}
	p.Badge = product.Badge(badge)
	if err := unmarshalList(images, &p.Images); err != nil {
		return p, err
	}
	if err := unmarshalList(specs, &p.Specs); err != nil {
		return p, err
	}
	if err := unmarshalList(colors, &p.Colors); err != nil {
		return p, err
	}
	return p, nil
}

func marshalProductLists(p *product.Product) (images, specs, colors []byte, err error) {
	if images, err = marshalList(p.Images); err != nil {
		return nil, nil, nil, err
	}
	if specs, err = marshalList(p.Specs); err != nil {
		return nil, nil, nil, err
	}
	if colors, err = marshalList(p.Colors); err != nil {
		return nil, nil, nil, err
	}
	return images, specs, colors, nil
}

// marshalList serializes a string list for a JSONB column, keeping NULL for
// an absent list.
func marshalList(list []string) ([]byte, error) {
	if list == nil {
		return nil, nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("marshaling list: %w", err)
	}
	return b, nil
}

func unmarshalList(b []byte, dst *[]string) error {
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}

var _ product.CategoryRepository = (*CategoryRepository)(nil)

// CategoryRepository implements product.CategoryRepository backed by PostgreSQL.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository returns a CategoryRepository that uses the given pool.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// ListActive returns active categories ordered by name.
func (r *CategoryRepository) ListActive(ctx context.Context) ([]product.Category, error) {
	rows, err := r.pool.Query(ctx, listActiveCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (product.Category, error) {
		var c product.Category
		err := row.Scan(&c.ID, &c.Name, &c.IsActive)
		return c, err
	})
}
