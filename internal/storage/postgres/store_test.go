package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// startPostgres runs a throwaway PostgreSQL container and returns its URL.
// The test is skipped when no container runtime is reachable.
func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container tests skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "fintrack",
			"POSTGRES_PASSWORD": "fintrack",
			"POSTGRES_DB":       "fintrack",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(90 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() { container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://fintrack:fintrack@%s:%s/fintrack?sslmode=disable", host, port.Port())
}

func TestStoreLoadSaveUpsert(t *testing.T) {
	url := startPostgres(t)
	ctx := context.Background()

	s, err := Open(ctx, url)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Save(ctx, storage.KeyDarkMode, []byte("true")))
	require.NoError(t, s.Save(ctx, storage.KeyDarkMode, []byte("false")))

	got, err = s.Load(ctx, storage.KeyDarkMode)
	require.NoError(t, err)
	assert.Equal(t, "false", string(got))

	var rows int
	require.NoError(t, s.pool.QueryRow(ctx, `SELECT count(*) FROM ledger_records`).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestStoreSurvivesReopen(t *testing.T) {
	url := startPostgres(t)
	ctx := context.Background()

	s, err := Open(ctx, url)
	require.NoError(t, err)
	repo := storage.NewRepository(s, nil)
	want := []core.Transaction{{
		ID:          "t1",
		Date:        core.NewDate(2024, 5, 1),
		Entry:       core.Expense(core.Money{Cents: 1999}),
		Description: "Lunch",
		Category:    core.CategoryFood,
	}}
	require.NoError(t, repo.SaveTransactions(ctx, want))
	require.NoError(t, repo.Close())

	// Opening again re-runs CREATE TABLE IF NOT EXISTS.
	s, err = Open(ctx, url)
	require.NoError(t, err)
	repo = storage.NewRepository(s, nil)
	defer repo.Close()

	got, err := repo.LoadTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
