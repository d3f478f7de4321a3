package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/yourusername/oddsedge/internal/config"
)

// SetupTestDB creates a test database connection and verifies it
func SetupTestDB(t *testing.T) *DB {
	cfg, err := config.Load("../../config/config.test.yaml")
	if err != nil {
		t.Skipf("test database config unavailable: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}

	verifyCtx, verifyCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer verifyCancel()

	if err := db.Ping(verifyCtx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	db.Close()
}

// RunMigrations is a placeholder for programmatic migrations in tests.
// Migrations are applied with the golang-migrate CLI:
// migrate -path migrations -database "postgres://..." up
func RunMigrations(ctx context.Context, db *DB) error {
	return fmt.Errorf("use migrate CLI: migrate -path migrations -database \"your_dsn\" up")
}
