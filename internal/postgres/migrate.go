package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied in order; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id          uuid PRIMARY KEY,
		name        text NOT NULL,
		price       numeric(14,2) NOT NULL CHECK (price >= 0),
		image       text NOT NULL,
		description text,
		created_at  timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS products_created_at_idx ON products (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id           uuid PRIMARY KEY,
		product_name text NOT NULL,
		quantity     integer NOT NULL CHECK (quantity > 0),
		total        numeric(14,2) NOT NULL,
		phone        text NOT NULL,
		address      text NOT NULL,
		status       text NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'done', 'batal')),
		created_at   timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS orders_created_at_idx ON orders (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS admins (
		username      text PRIMARY KEY,
		password_hash bytea NOT NULL,
		created_at    timestamptz NOT NULL DEFAULT now()
	)`,
}

func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
