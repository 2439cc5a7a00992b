// Package database owns the expenses table: connection lifecycle, schema
// provisioning and validated CRUD.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"spendbook/config"
)

// Store provides durable CRUD over the expenses table. The pool handle is
// read-only configuration after Open; all serialization happens inside
// PostgreSQL.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// EnsureDatabase creates the target database when it does not exist yet.
// It connects to the server's maintenance database, so it is skipped when
// the application was handed a ready-made DATABASE_URL.
func EnsureDatabase(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if cfg.DatabaseURL != "" {
		return nil
	}

	conn, err := pgx.Connect(ctx, cfg.MaintenanceConnString())
	if err != nil {
		return fmt.Errorf("connecting to maintenance database: %w", err)
	}
	defer conn.Close(ctx)

	var exists bool
	err = conn.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBName,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking for database %q: %w", cfg.DBName, err)
	}
	if exists {
		return nil
	}

	logger.Info("creating database", "name", cfg.DBName)
	// CREATE DATABASE cannot be parameterized; sanitize the identifier.
	_, err = conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{cfg.DBName}.Sanitize())
	if err != nil {
		return fmt.Errorf("creating database %q: %w", cfg.DBName, err)
	}
	return nil
}

// Open connects to PostgreSQL and returns a Store. The pool is capped at
// cfg.DBPoolSize connections; callers beyond capacity queue on acquisition.
// The initial ping is retried briefly so a database that is still starting
// up does not kill the process.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.DBPoolSize)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	err = retry.Do(
		func() error { return pool.Ping(ctx) },
		retry.Attempts(5),
		retry.Delay(2*time.Second),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	logger.Info("connected to database",
		"host", cfg.DBHost,
		"database", cfg.DBName,
		"pool_size", cfg.DBPoolSize,
	)
	return &Store{pool: pool, logger: logger}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Ping probes the database, used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
