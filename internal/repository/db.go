// Package repository persists finished battle reports to Postgres.
package repository

import (
	"context"
	"fmt"

	"github.com/arenaforge/arena-server-go/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// DB wraps the pgx connection pool.
type DB struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS battle_reports (
	battle_id         TEXT PRIMARY KEY,
	winning_team      INT NOT NULL,
	total_turns       INT NOT NULL,
	total_rounds      INT NOT NULL,
	commands_executed INT NOT NULL,
	combatants        JSONB NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// NewDB connects to the database and ensures the schema exists.
func NewDB(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pool, err := pgxpool.New(ctx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	logger.Info("database connected")

	return &DB{pool: pool, logger: logger}, nil
}

// Close releases the connection pool.
func (db *DB) Close() {
	db.pool.Close()
}
