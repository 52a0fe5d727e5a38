package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: early rows stored the raw sale status in upper case.
	`UPDATE items SET status = lower(status) WHERE status IS NOT NULL AND status <> lower(status)`,
	// Migration 2: split percentages were never bounded before clamping on write.
	`UPDATE items SET your_split_pct = 100 WHERE your_split_pct > 100`,
	`UPDATE items SET your_split_pct = 0 WHERE your_split_pct < 0`,
}

// Migrate ensures the schema and then applies every migration.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
