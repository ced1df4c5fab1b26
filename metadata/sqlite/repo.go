// Package sqlite implements the metadata index using SQLite
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mediavault/mediavault"
)

type repo struct {
	db        *sql.DB
	tableName string
}

func NewRepo(db *sql.DB, tableName string) (mediavault.MetaRepo, error) {
	if !mediavault.IsValidTableName(tableName) {
		return nil, fmt.Errorf("new repo: invalid table name: %s", tableName)
	}

	return &repo{db: db, tableName: tableName}, nil
}

func (r *repo) Get(ctx context.Context, name string) (mediavault.Record, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT name, extension, owner, description, created_at, modified_at
		FROM %s
		WHERE name = ?`, r.tableName)

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mediavault.Record{}, mediavault.ErrNotFound
		}
		return mediavault.Record{}, fmt.Errorf("get: %w", err)
	}

	return rec, nil
}

func (r *repo) Create(ctx context.Context, rec mediavault.Record) error {
	// Check existence first so a duplicate key surfaces as ErrConflict
	// rather than a driver-specific constraint error. The service layer
	// serializes mutations per key, so the check cannot race an insert
	// of the same name.
	var existing string
	checkQuery := fmt.Sprintf(`SELECT name FROM %s WHERE name = ?`, r.tableName) //nolint:gosec // table name is validated
	err := r.db.QueryRowContext(ctx, checkQuery, rec.Name).Scan(&existing)
	if err == nil {
		return fmt.Errorf("create: %w", mediavault.ErrConflict)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("create: check existing: %w", err)
	}

	insertQuery := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (name, extension, owner, description, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?)`, r.tableName)

	_, err = r.db.ExecContext(ctx, insertQuery,
		rec.Name, rec.Extension, rec.Owner, rec.Description,
		formatTime(rec.CreatedAt), formatTime(rec.ModifiedAt),
	)
	if err != nil {
		return fmt.Errorf("create: insert: %w", err)
	}

	return nil
}

func (r *repo) Update(ctx context.Context, rec mediavault.Record) error {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`UPDATE %s
		SET extension = ?, description = ?, modified_at = ?
		WHERE name = ?`, r.tableName)

	result, err := r.db.ExecContext(ctx, query,
		rec.Extension, rec.Description, formatTime(rec.ModifiedAt), rec.Name,
	)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("update: %w", mediavault.ErrNotFound)
	}

	return nil
}

func (r *repo) Delete(ctx context.Context, name string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE name = ?`, r.tableName) //nolint:gosec // table name is validated

	result, err := r.db.ExecContext(ctx, query, name)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("delete: %w", mediavault.ErrNotFound)
	}

	return nil
}

func (r *repo) List(ctx context.Context) ([]mediavault.Record, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT name, extension, owner, description, created_at, modified_at
		FROM %s
		ORDER BY name`, r.tableName)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []mediavault.Record{}
	for rows.Next() {
		rec, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("list: %w", scanErr)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: rows: %w", err)
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (mediavault.Record, error) {
	var rec mediavault.Record
	var createdAt, modifiedAt string

	if err := row.Scan(&rec.Name, &rec.Extension, &rec.Owner, &rec.Description, &createdAt, &modifiedAt); err != nil {
		return mediavault.Record{}, err
	}

	var err error
	rec.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return mediavault.Record{}, fmt.Errorf("parse created_at: %w: %v", mediavault.ErrInternal, err)
	}

	rec.ModifiedAt, err = parseTime(modifiedAt)
	if err != nil {
		return mediavault.Record{}, fmt.Errorf("parse modified_at: %w: %v", mediavault.ErrInternal, err)
	}

	return rec, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(mediavault.TimeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(mediavault.TimeLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
