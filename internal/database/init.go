package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/oddsedge/internal/config"
)

// Initialize creates a database connection pool and verifies the schema is usable
func Initialize(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify migrations are applied by checking schema_migrations table
	var migrationCount int
	err = db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&migrationCount)
	if err != nil {
		// Table might not exist yet, which is OK for initial setup
		logger.WithError(err).Warn("schema_migrations table not found, run migrations before first use")
		return db, nil
	}

	if migrationCount == 0 {
		logger.Warn("no migrations have been applied, run database migrations")
	}

	return db, nil
}
