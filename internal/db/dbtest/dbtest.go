// Package dbtest opens migrated throwaway databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/objectives/internal/db"
)

// New returns a migrated SQLite database in a temp dir. It is closed when
// the test ends.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	conn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	database, err := db.Init(db.DriverSQLite, conn)
	require.NoError(t, err, "failed to open test database")

	t.Cleanup(func() {
		database.Close()
	})

	err = db.RunMigrations(database.DB, db.DriverSQLite)
	require.NoError(t, err, "failed to migrate test database")

	return database
}
