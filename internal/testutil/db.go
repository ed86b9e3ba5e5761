// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"blogapi/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbCounter atomic.Int64

// NewSQLiteDB returns a migrated, private in-memory SQLite database with
// foreign keys enforced. It is closed when the test ends.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_foreign_keys=1", dbCounter.Add(1))
	db, err := database.OpenSQLite(context.Background(), dsn, "silent")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
