package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// NewTestDB creates a migrated database file in the test's temporary
// directory. It is opened with the same pragmas and pool as production, so
// concurrent handlers in tests behave as they do in a running server.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()

	database, err := Open(filepath.Join(t.TempDir(), "prft.sqlite3"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := Migrate(database); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	return database
}
