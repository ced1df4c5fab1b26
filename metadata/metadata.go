// Package metadata wires up the configured metadata index backend.
package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mediavault/mediavault"
	"github.com/mediavault/mediavault/metadata/postgres"
	"github.com/mediavault/mediavault/metadata/sidecar"
	"github.com/mediavault/mediavault/metadata/sqlite"

	_ "modernc.org/sqlite" // SQLite driver
)

// Config holds the configuration for connecting to a metadata backend.
type Config struct {
	// Backend specifies the index backend: "sidecar", "sqlite" or "postgres"
	Backend string `mapstructure:"backend" validate:"required,oneof=sidecar sqlite postgres"`
	// DSN is the data source name for the sqlite and postgres backends
	DSN string `mapstructure:"dsn"`
	// Table is the name of the metadata table for SQL backends
	Table string `mapstructure:"table"`
	// Path is the sidecar directory for the sidecar backend
	Path string `mapstructure:"path"`
}

// Connect establishes a connection to the configured metadata backend,
// runs migrations where applicable, validates the schema, and returns a
// MetaRepo. The returned cleanup function should be called to release
// the backend.
func Connect(ctx context.Context, cfg Config) (mediavault.MetaRepo, func(), error) {
	switch cfg.Backend {
	case "sidecar":
		return connectSidecar(cfg.Path)
	case "sqlite":
		return connectSQLite(ctx, cfg.DSN, cfg.Table)
	case "postgres":
		return connectPostgres(ctx, cfg.DSN, cfg.Table)
	default:
		return nil, nil, fmt.Errorf("unsupported metadata backend: %s", cfg.Backend)
	}
}

func connectSidecar(path string) (mediavault.MetaRepo, func(), error) {
	if path == "" {
		return nil, nil, errors.New("sidecar backend: path cannot be empty")
	}

	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, nil, fmt.Errorf("create sidecar directory: %w", err)
	}

	root, err := os.OpenRoot(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open sidecar root: %w", err)
	}

	cleanup := func() {
		_ = root.Close()
	}

	return sidecar.NewRepo(root), cleanup, nil
}

func connectSQLite(ctx context.Context, dsn, table string) (mediavault.MetaRepo, func(), error) {
	if !mediavault.IsValidTableName(table) {
		return nil, nil, fmt.Errorf("invalid metadata table name: %s", table)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err = sqlite.Migrate(ctx, db, table); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	if err = sqlite.ValidateSchema(ctx, db, table); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("validate sqlite schema: %w", err)
	}

	repo, err := sqlite.NewRepo(db, table)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("create sqlite repo: %w", err)
	}

	cleanup := func() {
		_ = db.Close()
	}

	return repo, cleanup, nil
}

func connectPostgres(ctx context.Context, dsn, table string) (mediavault.MetaRepo, func(), error) {
	if !mediavault.IsValidTableName(table) {
		return nil, nil, fmt.Errorf("invalid metadata table name: %s", table)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err = postgres.Migrate(ctx, pool, table); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("migrate postgres: %w", err)
	}

	if err = postgres.ValidateSchema(ctx, pool, table); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("validate postgres schema: %w", err)
	}

	repo, err := postgres.NewRepo(pool, table)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("create postgres repo: %w", err)
	}

	return repo, pool.Close, nil
}
