package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type seedProduct struct {
	name        string
	description string
	category    string
	price       string
	stock       int
}

var seedProducts = []seedProduct{
	{"Samsung Galaxy A15", "6.5\" display, 128GB storage", "phones", "18999.00", 12},
	{"Tecno Spark 20", "6.6\" display, 256GB storage", "phones", "15499.00", 20},
	{"Oraimo FreePods 4", "Wireless earbuds with noise cancellation", "accessories", "3299.00", 40},
	{"Anker 20W USB-C Charger", "Fast charger, USB-C PD", "accessories", "1850.00", 60},
	{"HP 250 G9 Laptop", "Intel Core i5, 8GB RAM, 512GB SSD", "laptops", "62500.00", 5},
	{"Screen Replacement Kit", "Tempered glass and tools", "parts", "950.00", 30},
}

var seedSettings = map[string]string{
	"store_name":      "Fasthub",
	"currency":        "KES",
	"support_phone":   "+254700000000",
	"low_stock_level": "5",
}

// Seed inserts the starter catalogue and settings, only when the database
// holds no products yet. It reports whether anything was inserted.
func Seed(ctx context.Context, logger *zerolog.Logger, db *Database) (bool, error) {
	seeded := false

	err := db.Sessions.WithSession(ctx, func(ctx context.Context, s *Session) error {
		var count int
		if err := s.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
			return fmt.Errorf("counting products: %w", err)
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()

		for _, p := range seedProducts {
			price, err := decimal.NewFromString(p.price)
			if err != nil {
				return err
			}
			if _, err := s.ExecContext(ctx, `
				INSERT INTO products (name, description, category, price, stock, image_url, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, '', $6, $6)`,
				p.name, p.description, p.category, price, p.stock, now,
			); err != nil {
				return fmt.Errorf("seeding product %q: %w", p.name, err)
			}
		}

		for key, value := range seedSettings {
			if _, err := s.ExecContext(ctx, `
				INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, $3)
				ON CONFLICT (key) DO NOTHING`,
				key, value, now,
			); err != nil {
				return fmt.Errorf("seeding setting %q: %w", key, err)
			}
		}

		if err := s.Commit(ctx); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if seeded {
		logger.Info().Int("products", len(seedProducts)).Msg("inserted seed data")
	} else {
		logger.Info().Msg("database already populated, skipping seed data")
	}
	return seeded, nil
}
