package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/modenkate/storefront/internal/domain/product"
	"github.com/modenkate/storefront/internal/domain/promo"
	"github.com/modenkate/storefront/internal/storage/postgres"
)

type seedFile struct {
	Categories []product.Category `json:"categories"`
	Products   []product.Product  `json:"products"`
	Promos     []struct {
		Code               string `json:"code"`
		PercentageDiscount int    `json:"percentage_discount"`
		ExpiryDate         string `json:"expiry_date"`
		UsageLimit         int    `json:"usage_limit"`
	} `json:"promo_codes"`
}

func main() {
	var (
		databaseURL   string
		seedPath      string
		adminEmail    string
		adminName     string
		adminPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&seedPath, "seed-file", "db/seed/catalog.json", "path to catalog seed JSON")
	flag.StringVar(&adminEmail, "admin-email", "", "admin account email (or STORE_SEED_ADMIN_EMAIL env)")
	flag.StringVar(&adminName, "admin-name", "Store Admin", "admin display name")
	flag.StringVar(&adminPassword, "admin-password", "", "admin password (or STORE_SEED_ADMIN_PASSWORD env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminEmail == "" {
		adminEmail = os.Getenv("STORE_SEED_ADMIN_EMAIL")
	}
	if adminPassword == "" {
		adminPassword = os.Getenv("STORE_SEED_ADMIN_PASSWORD")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, seedPath, adminEmail, adminName, adminPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("seed completed")
}

func run(ctx context.Context, databaseURL, seedPath, adminEmail, adminName, adminPassword string) error {
	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "create pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	raw, err := os.ReadFile(seedPath)
	if err != nil {
		return errors.Wrap(err, "read seed file")
	}
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return errors.Wrap(err, "parse seed file")
	}

	for _, c := range seed.Categories {
		_, err := pool.Exec(ctx,
			`INSERT INTO categories (id, name, is_active) VALUES ($1, $2, TRUE)
			 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`,
			c.ID, c.Name,
		)
		if err != nil {
			return errors.Wrapf(err, "seed category %s", c.ID)
		}
	}
	slog.Info("seeded categories", slog.Int("count", len(seed.Categories)))

	products := postgres.NewProductRepository(pool)
	for i := range seed.Products {
		p := &seed.Products[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		p.IsActive = true
		if err := products.Upsert(ctx, p); err != nil {
			return errors.Wrapf(err, "seed product %s", p.Name)
		}
	}
	slog.Info("seeded products", slog.Int("count", len(seed.Products)))

	promos := postgres.NewPromoRepository(pool)
	for _, entry := range seed.Promos {
		expiry, err := time.Parse("2006-01-02", entry.ExpiryDate)
		if err != nil {
			return errors.Wrapf(err, "parse expiry for %s", entry.Code)
		}
		c := promo.Code{
			Code:               promo.Normalize(entry.Code),
			PercentageDiscount: entry.PercentageDiscount,
			ExpiryDate:         expiry,
			IsActive:           true,
			UsageLimit:         entry.UsageLimit,
		}
		if err := c.Validate(); err != nil {
			return errors.Wrapf(err, "invalid promo %s", entry.Code)
		}
		if err := promos.Upsert(ctx, &c); err != nil {
			return errors.Wrapf(err, "seed promo %s", entry.Code)
		}
	}
	slog.Info("seeded promo codes", slog.Int("count", len(seed.Promos)))

	if adminEmail != "" && adminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return errors.Wrap(err, "hash admin password")
		}
		_, err = pool.Exec(ctx,
			`INSERT INTO users (id, email, name, password_hash, role, is_active)
			 VALUES ($1, $2, $3, $4, 'admin', TRUE)
			 ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash, name = EXCLUDED.name`,
			uuid.New().String(), adminEmail, adminName, string(hash),
		)
		if err != nil {
			return errors.Wrap(err, "seed admin user")
		}
		slog.Info("seeded admin user", slog.String("email", adminEmail))
	}

	return nil
}
