// Package testutil provides test helpers for setting up in-memory databases,
// creating ledger fixtures, and making assertions.
package testutil

import (
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	"kaban/internal/database"
	"kaban/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

// SetupTestDB creates a private in-memory SQLite database with all models
// migrated. The pool is pinned to one connection, matching how the ledger
// runs on SQLite, so concurrent callers are serialized by the driver.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:kaban_test_%d?mode=memory&cache=shared&_busy_timeout=5000&_foreign_keys=on", dbCounter.Add(1))
	return openTestDB(t, dsn, 1)
}

// SetupFileTestDB creates a WAL-mode SQLite database file under t.TempDir()
// with a pool of maxConns connections. Transactions on different connections
// really overlap, so writers hit SQLITE_BUSY and lost conditional updates the
// way concurrent API requests do.
func SetupFileTestDB(t *testing.T, maxConns int) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), fmt.Sprintf("kaban_test_%d.db", dbCounter.Add(1)))
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	return openTestDB(t, dsn, maxConns)
}

func openTestDB(t *testing.T, dsn string, maxConns int) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get underlying test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(maxConns)

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// SetupTestRunner returns a TxRunner over db with fast retries for tests.
func SetupTestRunner(db *gorm.DB) *database.TxRunner {
	opts := database.DefaultTxOptions()
	opts.BaseDelay = 1
	return database.NewTxRunner(db, opts)
}

// TeardownTestDB closes the underlying database connection.
func TeardownTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("failed to get underlying DB for teardown: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}
