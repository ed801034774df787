package database

import (
	"context"
	"fmt"

	"github.com/yourusername/value-lines/internal/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS predictions (
	id                UUID PRIMARY KEY,
	fixture_id        TEXT NOT NULL,
	home_team         TEXT NOT NULL,
	away_team         TEXT NOT NULL,
	field             TEXT NOT NULL,
	line              DOUBLE PRECISION NOT NULL,
	side              TEXT NOT NULL CHECK (side IN ('over', 'under')),
	probability       DOUBLE PRECISION NOT NULL,
	fair_decimal_odds DOUBLE PRECISION NOT NULL,
	predicted_total   DOUBLE PRECISION NOT NULL,
	confidence        TEXT NOT NULL,
	sample_size       INTEGER NOT NULL,
	status            TEXT NOT NULL DEFAULT 'pending',
	actual_value      DOUBLE PRECISION,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	settled_at        TIMESTAMPTZ,
	UNIQUE (fixture_id, field, line, side)
);

CREATE INDEX IF NOT EXISTS idx_predictions_fixture ON predictions (fixture_id);
CREATE INDEX IF NOT EXISTS idx_predictions_status ON predictions (status);
`

// Initialize connects and makes sure the predictions schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the predictions table and indexes if missing
func EnsureSchema(ctx context.Context, db *DB) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
