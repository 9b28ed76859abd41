// Package pgtest provides a throwaway Postgres endpoint for integration
// tests. It prefers TEST_DATABASE_URL (CI-provided server) and otherwise
// starts a disposable container via testcontainers; tests are skipped when
// neither is available.
package pgtest

import (
	"context"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/fitstack/gymgate/platform/go/persistence"
)

// ConnString returns a connection URL for a Postgres server usable by the
// calling test, along with cleanup registered on the test.
func ConnString(t *testing.T) string {
	t.Helper()

	if connStr, ok := os.LookupEnv("TEST_DATABASE_URL"); ok && connStr != "" {
		return connStr
	}

	ctx := context.Background()
	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("postgres"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("postgres unavailable (set TEST_DATABASE_URL or run docker): %v", err)
	}
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(ctr)
	})

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("container connection string: %v", err)
	}
	return connStr
}

// Pool returns a connected pgxpool for the test server; closed on cleanup.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx := context.Background()
	pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: ConnString(t)})
	if err != nil {
		t.Fatalf("create test pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// Server decomposes the test connection URL into shared ConnSettings plus the
// maintenance database name, the shape the provisioner consumes.
func Server(t *testing.T) (persistence.ConnSettings, string) {
	t.Helper()

	u, err := url.Parse(ConnString(t))
	if err != nil {
		t.Fatalf("parse test database url: %v", err)
	}

	port := 5432
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			t.Fatalf("parse test database port: %v", err)
		}
	}

	password, _ := u.User.Password()
	settings := persistence.ConnSettings{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
	}

	database := strings.TrimPrefix(u.Path, "/")
	if database == "" {
		database = "postgres"
	}
	return settings, database
}
