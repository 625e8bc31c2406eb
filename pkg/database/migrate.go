package database

import (
	"database/sql"
	"fmt"
	"sort"

	"attendance.service/migrations"
)

// ApplyMigrations runs the embedded SQL migrations in filename order. Each
// file must be idempotent (CREATE ... IF NOT EXISTS) since there is no
// version tracking table.
func ApplyMigrations(db *sql.DB) error {
	entries, err := migrations.Files.ReadDir(".")
	if err != nil {
		return fmt.Errorf("reading embedded migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		script, err := migrations.Files.ReadFile(name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(script)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
	}
	return nil
}
