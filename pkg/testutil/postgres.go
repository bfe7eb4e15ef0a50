//go:build integration

package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	pgutil "github.com/bibbank/credit-module/pkg/postgres"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance.
type PostgresContainer struct {
	Container *postgres.PostgresContainer
	DSN       string
	Pool      *pgxpool.Pool
}

// NewPostgresContainer starts a PostgreSQL container and registers its
// teardown with t.Cleanup.
func NewPostgresContainer(ctx context.Context, t *testing.T) *PostgresContainer {
	t.Helper()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("credit_test"),
		postgres.WithUsername("credit"),
		postgres.WithPassword("credit"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "start postgres container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "postgres connection string")

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err, "create pgxpool")
	require.NoError(t, pool.Ping(ctx), "ping postgres")

	pc := &PostgresContainer{Container: pgContainer, DSN: dsn, Pool: pool}
	t.Cleanup(func() { pc.terminate(t) })
	return pc
}

// RunMigrations applies the migrations in dir with golang-migrate, the same
// path the service takes on start-up.
func (pc *PostgresContainer) RunMigrations(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, pgutil.RunMigrations(pc.DSN, dir), "run migrations")
}

// Truncate empties the given tables between subtests.
func (pc *PostgresContainer) Truncate(t *testing.T, tables ...string) {
	t.Helper()
	for _, table := range tables {
		_, err := pc.Pool.Exec(context.Background(), "TRUNCATE TABLE "+table+" CASCADE")
		require.NoError(t, err, "truncate %s", table)
	}
}

func (pc *PostgresContainer) terminate(t *testing.T) {
	t.Helper()

	pc.Pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := pc.Container.Terminate(ctx); err != nil {
		t.Logf("warning: failed to terminate postgres container: %v", err)
	}
}
