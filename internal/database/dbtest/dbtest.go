// Package dbtest opens throwaway SQLite databases with the full schema applied.
package dbtest

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"sunatstock/internal/database"
)

// Open returns a migrated database backed by a file in t.TempDir().
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "sunatstock.db") + "?_pragma=foreign_keys(1)"
	db, err := database.NewConnection(database.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.MigrateInventoryDB(db); err != nil {
		t.Fatalf("migrate inventory: %v", err)
	}
	if err := database.MigrateUserDB(db); err != nil {
		t.Fatalf("migrate users: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
