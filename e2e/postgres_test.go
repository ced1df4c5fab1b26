package e2e_test

import (
	"context"
	"sync"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	pgOnce    sync.Once
	pgCleanup func()
	pgDSN     string
)

// sharedPostgresDSN returns a DSN for a shared PostgreSQL container.
// The container is reused across all tests for performance; each test
// isolates itself with its own metadata table.
func sharedPostgresDSN(t *testing.T) string {
	t.Helper()

	pgOnce.Do(func() {
		ctx := context.Background()

		container, err := pgcontainer.Run(ctx,
			"postgres:18-alpine",
			pgcontainer.WithDatabase("testdb"),
			pgcontainer.WithUsername("testuser"),
			pgcontainer.WithPassword("testpass"),
			pgcontainer.BasicWaitStrategies(),
		)
		if err != nil {
			t.Fatalf("failed to start postgres container: %v", err)
		}

		pgCleanup = func() {
			_ = testcontainers.TerminateContainer(container)
		}

		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			pgCleanup()
			t.Fatalf("failed to get connection string: %v", err)
		}

		pgDSN = dsn
	})

	if pgDSN == "" {
		t.Skip("shared postgres container is unavailable")
	}

	return pgDSN
}
