package database

import (
	"context"
	"fmt"
)

// CreateSchema provisions the expenses table. It runs once at startup and
// is idempotent; there is no migration or schema versioning system.
func (s *Store) CreateSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS expenses (
			id SERIAL PRIMARY KEY,
			description TEXT NOT NULL,
			amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
			category TEXT NOT NULL DEFAULT 'Other',
			date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating expenses table: %w", err)
	}

	s.logger.Info("schema ready")
	return nil
}
