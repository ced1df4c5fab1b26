package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// quoteIdentifier safely quotes a SQLite identifier
func quoteIdentifier(name string) string {
	return `"` + name + `"`
}

func Migrate(ctx context.Context, db *sql.DB, tableName string) error {
	if err := createRecordTable(ctx, db, tableName); err != nil {
		return fmt.Errorf("migrate up %s: %w", tableName, err)
	}
	return nil
}

func DropTables(ctx context.Context, db *sql.DB, tableName string) error {
	dropSQL := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdentifier(tableName))
	if _, err := db.ExecContext(ctx, dropSQL); err != nil {
		return fmt.Errorf("migrate down %s: %w", tableName, err)
	}
	return nil
}

func createRecordTable(ctx context.Context, db *sql.DB, tableName string) error {
	quotedTable := quoteIdentifier(tableName)
	indexOwnerCreated := quoteIdentifier(fmt.Sprintf("idx_%s_owner_created", tableName))

	// Timestamps are TEXT in the codec layout; lexicographic order
	// matches chronological order at second precision.
	createTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			name TEXT NOT NULL PRIMARY KEY,
			extension TEXT NOT NULL,
			owner TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			modified_at TEXT NOT NULL
		)
	`, quotedTable)

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	indexSQL := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s ON %s (owner, created_at)
	`, indexOwnerCreated, quotedTable)

	if _, err := db.ExecContext(ctx, indexSQL); err != nil {
		return fmt.Errorf("create index owner_created: %w", err)
	}

	return nil
}
