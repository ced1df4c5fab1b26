package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func Migrate(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	if err := createRecordTable(ctx, pool, tableName); err != nil {
		return fmt.Errorf("migrate up %s: %w", tableName, err)
	}
	return nil
}

func DropTables(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	quotedTable := pgx.Identifier{tableName}.Sanitize()
	if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", quotedTable)); err != nil {
		return fmt.Errorf("migrate down %s: %w", tableName, err)
	}
	return nil
}

func createRecordTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	quotedTable := pgx.Identifier{tableName}.Sanitize()
	indexOwnerCreated := pgx.Identifier{fmt.Sprintf("idx_%s_owner_created", tableName)}.Sanitize()

	// Timestamps are TEXT in the codec layout, matching the sidecar and
	// sqlite backends byte for byte.
	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			name TEXT PRIMARY KEY,
			extension TEXT NOT NULL,
			owner TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			modified_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS %s
		ON %s (owner, created_at);
	`,
		quotedTable,
		indexOwnerCreated, quotedTable,
	)

	_, err := pool.Exec(ctx, sql)
	if err != nil {
		return fmt.Errorf("create record table: %w", err)
	}
	return nil
}

type columnInfo struct {
	name       string
	dataType   string
	isNullable bool
}

var recordTableSchema = map[string]columnInfo{
	"name":        {"name", "text", false},
	"extension":   {"extension", "text", false},
	"owner":       {"owner", "text", false},
	"description": {"description", "text", false},
	"created_at":  {"created_at", "text", false},
	"modified_at": {"modified_at", "text", false},
}

// ValidateSchema checks that the record table matches the expected
// structure before the repo is handed out.
func ValidateSchema(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	query := `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
	`

	rows, err := pool.Query(ctx, query, tableName)
	if err != nil {
		return fmt.Errorf("validate schema %s: query columns: %w", tableName, err)
	}
	defer rows.Close()

	actualColumns := make(map[string]columnInfo)
	for rows.Next() {
		var name, dataType, isNullable string
		if err := rows.Scan(&name, &dataType, &isNullable); err != nil {
			return fmt.Errorf("validate schema %s: scan column: %w", tableName, err)
		}
		actualColumns[name] = columnInfo{
			name:       name,
			dataType:   strings.ToLower(dataType),
			isNullable: isNullable == "YES",
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("validate schema %s: rows error: %w", tableName, err)
	}

	if len(actualColumns) == 0 {
		return fmt.Errorf("validate schema %s: table does not exist", tableName)
	}

	var problems []string
	for colName, expected := range recordTableSchema {
		actual, exists := actualColumns[colName]
		if !exists {
			problems = append(problems, fmt.Sprintf("missing column %s", colName))
			continue
		}
		if actual.dataType != expected.dataType {
			problems = append(problems, fmt.Sprintf("%s: expected %s, got %s", colName, expected.dataType, actual.dataType))
		}
		if actual.isNullable != expected.isNullable {
			problems = append(problems, fmt.Sprintf("%s: expected nullable=%v, got nullable=%v", colName, expected.isNullable, actual.isNullable))
		}
	}

	if len(problems) > 0 {
		return errors.New("table " + tableName + " schema validation failed: " + strings.Join(problems, "; "))
	}

	return nil
}
