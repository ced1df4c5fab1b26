// Package postgres implements the metadata index using PostgreSQL
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mediavault/mediavault"
)

type Repo struct {
	pool      *pgxpool.Pool
	tableName string
}

func NewRepo(pool *pgxpool.Pool, tableName string) (*Repo, error) {
	if !mediavault.IsValidTableName(tableName) {
		return nil, fmt.Errorf("new repo: invalid table name: %s", tableName)
	}

	return &Repo{pool: pool, tableName: tableName}, nil
}

// Ping verifies database connectivity
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repo) Get(ctx context.Context, name string) (mediavault.Record, error) {
	query := fmt.Sprintf(`
		SELECT name, extension, owner, description, created_at, modified_at
		FROM %s
		WHERE name = $1
	`, r.tableName)

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mediavault.Record{}, mediavault.ErrNotFound
		}
		return mediavault.Record{}, fmt.Errorf("get: %w", err)
	}

	return rec, nil
}

func (r *Repo) Create(ctx context.Context, rec mediavault.Record) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, extension, owner, description, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO NOTHING
	`, r.tableName)

	result, err := r.pool.Exec(ctx, query,
		rec.Name, rec.Extension, rec.Owner, rec.Description,
		formatTime(rec.CreatedAt), formatTime(rec.ModifiedAt),
	)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("create: %w", mediavault.ErrConflict)
	}

	return nil
}

func (r *Repo) Update(ctx context.Context, rec mediavault.Record) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET extension = $1, description = $2, modified_at = $3
		WHERE name = $4
	`, r.tableName)

	result, err := r.pool.Exec(ctx, query,
		rec.Extension, rec.Description, formatTime(rec.ModifiedAt), rec.Name,
	)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update: %w", mediavault.ErrNotFound)
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, name string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE name = $1`, r.tableName)

	result, err := r.pool.Exec(ctx, query, name)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete: %w", mediavault.ErrNotFound)
	}

	return nil
}

func (r *Repo) List(ctx context.Context) ([]mediavault.Record, error) {
	query := fmt.Sprintf(`
		SELECT name, extension, owner, description, created_at, modified_at
		FROM %s
		ORDER BY name
	`, r.tableName)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

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
