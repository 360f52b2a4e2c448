//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("hestia"),
		postgres.WithUsername("hestia"),
		postgres.WithPassword("hestia"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if termErr := testcontainers.TerminateContainer(ctr); termErr != nil {
			t.Logf("failed to terminate container: %v", termErr)
		}
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(stdlib.OpenDBFromPool(pool), "../../migrations"))

	return pool
}

func TestIntegration_TaskLifecycle(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	m := newTestMetrics()
	tasks := repository.NewTaskRepository(pool, m)

	created, err := tasks.CreateTask(ctx, models.Task{
		Title: "Fix AC", Department: "Mantenimiento", Status: models.StatusOpen, CreatedBy: "recepcion",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, models.StatusOpen, created.Status)
	assert.Empty(t, created.Comments)

	first := models.Comment{Text: "uno", Author: "a", Date: time.Now().UTC().Truncate(time.Second)}
	second := models.Comment{Text: "dos", Author: "b", Date: first.Date.Add(time.Minute)}
	_, err = tasks.AppendTaskComment(ctx, created.ID, first)
	require.NoError(t, err)
	_, err = tasks.AppendTaskComment(ctx, created.ID, second)
	require.NoError(t, err)

	updated, err := tasks.UpdateTaskStatus(ctx, created.ID, models.StatusClosed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, updated.Status)

	listed, err := tasks.ListTasksByDepartment(ctx, "Mantenimiento")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Len(t, listed[0].Comments, 2)
	assert.Equal(t, "uno", listed[0].Comments[0].Text)
	assert.Equal(t, "dos", listed[0].Comments[1].Text)
	assert.True(t, first.Date.Equal(listed[0].Comments[0].Date))
}

func TestIntegration_SubscriptionsAndUsers(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	m := newTestMetrics()
	subs := repository.NewSubscriptionRepository(pool, m)
	users := repository.NewUserRepository(pool, m)

	require.NoError(t, subs.SaveSubscription(ctx, models.PushSubscription{
		Endpoint: "https://push/1", Department: "Housekeeping", Payload: `{}`,
	}))
	require.NoError(t, subs.SaveSubscription(ctx, models.PushSubscription{
		Endpoint: "https://push/2", Department: "Housekeeping", Payload: `{}`,
	}))
	require.NoError(t, subs.DeleteSubscription(ctx, "https://push/1"))

	left, err := subs.ListSubscriptionsByDepartment(ctx, "Housekeeping")
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "https://push/2", left[0].Endpoint)

	_, err = users.CreateUser(ctx, models.User{Username: "ama1", PasswordHash: "h", Role: "staff"})
	require.NoError(t, err)
	_, err = users.CreateUser(ctx, models.User{Username: "ama1", PasswordHash: "h", Role: "staff"})
	require.ErrorIs(t, err, repository.ErrAlreadyExists)
}

func TestIntegration_Settings(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	settings := repository.NewSettingsRepository(pool, newTestMetrics())

	require.NoError(t, settings.SaveSettings(ctx, map[string]string{"hotel_name": "Molly", "logo": "/a.png"}))
	require.NoError(t, settings.SaveSettings(ctx, map[string]string{"logo": "/b.png"}))

	stored, err := settings.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Molly", stored["hotel_name"])
	assert.Equal(t, "/b.png", stored["logo"])
}
