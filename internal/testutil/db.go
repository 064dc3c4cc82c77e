// Package testutil holds shared test helpers.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/gorm"

	"patientmanager/internal/repository"
)

// NewDB opens a migrated in-memory database unique to the calling test.
func NewDB(t *testing.T) *gorm.DB {
	return NewNamedDB(t, "")
}

// NewNamedDB is NewDB with a suffix, for tests that need more than one
// independent database.
func NewNamedDB(t *testing.T, suffix string) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name() + suffix)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := repository.NewDB(dsn)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}
