package repository

import (
	"context"
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/acmebank/account-service/internal/config"
	"github.com/acmebank/account-service/internal/db"
)

// setupTestDB connects to the database configured through the environment.
// Tests in this package are skipped when no database is reachable.
func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	sqlDB, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		t.Skipf("test database unavailable: %v", err)
	}

	database := db.NewTestDB(sqlDB)

	runMigrations(t, database)
	truncateTables(t, database)

	return database
}

func runMigrations(t *testing.T, database *db.DB) {
	t.Helper()

	migrationPath := filepath.Join("..", "..", "internal", "db", "migrations", "000001_init.up.sql")
	sqlBytes, err := os.ReadFile(migrationPath) // #nosec G304
	if err != nil {
		t.Fatalf("failed to read migration file: %v", err)
	}

	if _, err := database.ExecContext(context.Background(), string(sqlBytes)); err != nil {
		t.Logf("migration execution completed (tables may already exist): %v", err)
	}
}

func cleanupTestDB(t *testing.T, database *db.DB) {
	t.Helper()
	if err := database.Close(); err != nil {
		log.Printf("failed to close test database: %v", err)
	}
}

func truncateTables(t *testing.T, database *db.DB) {
	t.Helper()

	tables := []string{"transactions", "idempotency_keys"}
	for _, table := range tables {
		_, err := database.ExecContext(context.Background(), "TRUNCATE TABLE "+table+" CASCADE")
		if err != nil {
			t.Fatalf("failed to truncate table %s: %v", table, err)
		}
	}

	_, err := database.ExecContext(context.Background(), `
		DELETE FROM accounts;
		INSERT INTO accounts (account_number, account_type, owner_id, balance, movement_count, status) VALUES
			('ACC-1', 'CURRENT', 'CUST-1', 1000.00, 0, 'ACTIVE'),
			('ACC-2', 'SAVINGS', 'CUST-1', 500.00, 0, 'ACTIVE'),
			('ACC-3', 'FIXED_TERM', 'CUST-2', 2000.00, 0, 'ACTIVE'),
			('ACC-4', 'CURRENT', 'CUST-3', 0.00, 0, 'BLOCKED');
	`)
	if err != nil {
		t.Fatalf("failed to reset accounts: %v", err)
	}
}
