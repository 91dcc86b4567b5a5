package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// schema holds the tables owned by the vault backend
const schema = `
	CREATE TABLE IF NOT EXISTS operations (
		seq          BIGSERIAL PRIMARY KEY,
		id           UUID NOT NULL UNIQUE,
		kind         TEXT NOT NULL,
		caller       UUID NOT NULL,
		receiver     UUID,
		owner        UUID,
		strategy_id  UUID,
		assets       NUMERIC(78, 0) NOT NULL,
		shares       NUMERIC(78, 0) NOT NULL,
		total_assets NUMERIC(78, 0) NOT NULL,
		total_shares NUMERIC(78, 0) NOT NULL,
		date         TIMESTAMPTZ NOT NULL
	)
`

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=auravault sslmode=disable"
func NewDB(ctx context.Context, connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// EnsureSchema creates missing tables
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
