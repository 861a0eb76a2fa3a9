// Package dbtest opens throwaway SQLite databases with the real schema for tests.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/reefdive/apiserver/config"
	"github.com/reefdive/apiserver/internal/db"
)

// Open returns a migrated SQLite database that lives in t.TempDir.
func Open(t testing.TB) *sql.DB {
	t.Helper()

	cfg := config.Config{
		Database: config.DatabaseConfig{
			Driver: config.DriverSQLite,
			Path:   filepath.Join(t.TempDir(), "test.db"),
		},
	}

	conn, err := db.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})

	if err := db.MigrateUp(conn, config.DriverSQLite); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return conn
}
