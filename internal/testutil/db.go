// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"corpsite/config"
	"corpsite/internal/database"
)

// NewDB returns a migrated in-memory sqlite database private to the test.
// A single connection keeps the in-memory database alive and shared.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.NewDB(&config.DatabaseConfig{Driver: "sqlite", DSN: dsn, MaxOpenConns: 1})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if err := database.Close(db); err != nil {
			t.Logf("close test db: %v", err)
		}
	})
	return db
}
