package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is the subset of a pool needed to apply the schema.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// schemaStatements are idempotent and applied in order at startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS promotions (
		id              TEXT PRIMARY KEY,
		code            TEXT,
		name            TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		banner_text     TEXT NOT NULL DEFAULT '',
		discount_kind   TEXT NOT NULL,
		discount_value  NUMERIC(12,2) NOT NULL DEFAULT 0,
		free_service_id TEXT NOT NULL DEFAULT '',
		service_ids     TEXT[] NOT NULL DEFAULT '{}',
		location_slugs  TEXT[] NOT NULL DEFAULT '{}',
		customer_type   TEXT NOT NULL DEFAULT 'any',
		min_order_value NUMERIC(12,2) NOT NULL DEFAULT 0,
		starts_at       TIMESTAMPTZ,
		ends_at         TIMESTAMPTZ,
		badge_text      TEXT NOT NULL DEFAULT '',
		priority_rank   INTEGER NOT NULL DEFAULT 0,
		active          BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS promotions_code_key ON promotions (lower(code)) WHERE code IS NOT NULL`,
	`CREATE TABLE IF NOT EXISTS validation_attempts (
		id              BIGSERIAL PRIMARY KEY,
		code            TEXT NOT NULL,
		promotion_id    TEXT,
		valid           BOOLEAN NOT NULL,
		reason          TEXT NOT NULL DEFAULT '',
		location_slug   TEXT NOT NULL DEFAULT '',
		customer_type   TEXT NOT NULL DEFAULT '',
		order_value     NUMERIC(12,2) NOT NULL,
		discount_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS validation_attempts_created_at_idx ON validation_attempts (created_at)`,
}

// EnsureSchema creates the promotions and validation_attempts tables if missing.
func EnsureSchema(ctx context.Context, db Execer) error {
	for i, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
