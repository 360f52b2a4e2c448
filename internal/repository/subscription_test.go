package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/repository"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveSubscription(t *testing.T) {
	t.Parallel()

	sub := models.PushSubscription{
		Endpoint:   "https://push.example.com/abc",
		Department: "Housekeeping",
		Payload:    `{"endpoint":"https://push.example.com/abc","keys":{"auth":"a","p256dh":"b"}}`,
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("INSERT INTO push_subscriptions").
			WithArgs(sub.Endpoint, sub.Department, sub.Payload).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := repository.NewSubscriptionRepository(mock, newTestMetrics())

		require.NoError(t, repo.SaveSubscription(context.Background(), sub))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("INSERT INTO push_subscriptions").
			WithArgs(sub.Endpoint, sub.Department, sub.Payload).
			WillReturnError(assert.AnError)

		repo := repository.NewSubscriptionRepository(mock, newTestMetrics())
		err = repo.SaveSubscription(context.Background(), sub)

		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListSubscriptionsByDepartment(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM push_subscriptions WHERE department = $1")).
		WithArgs("Mantenimiento").
		WillReturnRows(pgxmock.NewRows([]string{"endpoint", "department", "subscription"}).
			AddRow("https://push/1", "Mantenimiento", `{"endpoint":"https://push/1"}`).
			AddRow("https://push/2", "Mantenimiento", `{"endpoint":"https://push/2"}`))

	repo := repository.NewSubscriptionRepository(mock, newTestMetrics())
	subs, err := repo.ListSubscriptionsByDepartment(context.Background(), "Mantenimiento")

	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "https://push/1", subs[0].Endpoint)
	assert.JSONEq(t, `{"endpoint":"https://push/2"}`, subs[1].Payload)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestDeleteSubscription checks that only the given endpoint is targeted.
func TestDeleteSubscription(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM push_subscriptions WHERE endpoint = $1")).
		WithArgs("https://push/gone").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	repo := repository.NewSubscriptionRepository(mock, newTestMetrics())

	require.NoError(t, repo.DeleteSubscription(context.Background(), "https://push/gone"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
