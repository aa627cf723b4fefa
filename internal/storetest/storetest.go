// Package storetest opens throwaway databases for tests.
package storetest

import (
	"path/filepath"
	"testing"

	"project-service/pkg/database"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated gorm database backed by a sqlite file in t.TempDir().
// Foreign keys are enforced so delete ordering matches PostgreSQL.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig(logger.Silent))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// one connection keeps transactions and plain reads on the same file lock
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
