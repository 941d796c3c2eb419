package adapters

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"exercise_tracker/internal/platform/db"
)

// setupTestDB prepares an in-memory SQLite database with foreign keys enabled.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(db.Config{Driver: db.DriverSQLite, Path: ":memory:", RunMigrations: true}, Models()...)
	require.NoError(t, err, "failed to initialize test database")
	t.Cleanup(func() { _ = db.Close(gdb) })

	return gdb
}
