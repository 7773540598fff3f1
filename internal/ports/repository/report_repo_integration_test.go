//go:build integration

package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"timesheet.reports/internal/core/model"
	"timesheet.reports/pkg/database"
)

func newTestRepository(t *testing.T) (Repository, func(query string, args ...any)) {
	t.Helper()
	ctx := context.Background()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("timesheet"),
		postgrescontainer.WithUsername("reports"),
		postgrescontainer.WithPassword("reports"),
		postgrescontainer.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.NewConnection(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../../db/migrations/0001_init.up.sql")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, string(schema))
	require.NoError(t, err)

	exec := func(query string, args ...any) {
		_, err := db.ExecContext(ctx, query, args...)
		require.NoError(t, err)
	}
	return NewReportRepository(db), exec
}

func TestReportRepository(t *testing.T) {
	repo, exec := newTestRepository(t)
	ctx := context.Background()

	exec(`INSERT INTO users (id, email, name, created_at) VALUES
		('u1', 'ana@example.com', 'Ana', '2025-12-01'),
		('u2', 'ben@example.com', NULL, '2025-12-01')`)
	exec(`INSERT INTO clients (id, name, user_id, email) VALUES (1, 'Acme', 'u1', 'ops@acme.test')`)
	exec(`INSERT INTO work_entries (user_id, client_id, hours, description, date, billable) VALUES
		('u1', 1, 5.50, 'Planning', '2026-01-05', true),
		('u1', 1, 3.00, NULL, '2026-01-06', false),
		('u1', 1, 2.25, 'Review', '2026-01-06', false),
		('u2', 1, 8.00, 'Support', '2026-01-12', true)`)

	t.Run("client", func(t *testing.T) {
		c, err := repo.GetClient(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "Acme", c.Name)
		require.NotNil(t, c.Email)
		assert.Nil(t, c.Department)

		missing, err := repo.GetClient(ctx, 404)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("entries by client are owner scoped and newest first", func(t *testing.T) {
		entries, err := repo.ListWorkEntriesByClient(ctx, 1, "u1")
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), entries[0].Date)
		assert.True(t, decimal.RequireFromString("5.5").Equal(entries[2].Hours))
		assert.Equal(t, "Acme", entries[0].ClientName)
	})

	t.Run("entries by owner in range", func(t *testing.T) {
		from := time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)
		entries, err := repo.ListWorkEntriesByOwner(ctx, "u1", &from, nil)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("users", func(t *testing.T) {
		users, err := repo.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "", users[1].Name)
	})

	t.Run("owners and submission days", func(t *testing.T) {
		start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC)

		owners, err := repo.ListWorkEntryOwnersInRange(ctx, start, end)
		require.NoError(t, err)
		assert.Equal(t, map[string]struct{}{"u1": {}}, owners)

		subs, err := repo.ListSubmissionDays(ctx, start, end)
		require.NoError(t, err)
		assert.ElementsMatch(t, []model.Submission{
			{UserID: "u1", Date: start},
			{UserID: "u1", Date: time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)},
		}, subs)
	})
}
