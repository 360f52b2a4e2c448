package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskCols = []string{
	"id", "title", "description", "department", "status", "created_by", "created_at", "due_date", "comments",
}

func newTestMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.NewRegistry())
}

// TestCreateTask checks that a task is inserted and returned with store-assigned fields.
func TestCreateTask(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	createdAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	task := models.Task{
		Title:       "Fix AC",
		Description: "Room 204",
		Department:  "Mantenimiento",
		Status:      models.StatusOpen,
		CreatedBy:   "recepcion",
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewTaskRepository(mock, newTestMetrics())

		mock.ExpectQuery("INSERT INTO tasks").
			WithArgs(task.Title, task.Description, task.Department, task.Status, task.CreatedBy, task.DueDate).
			WillReturnRows(pgxmock.NewRows(taskCols).AddRow(
				7, task.Title, task.Description, task.Department, task.Status, task.CreatedBy,
				createdAt, (*time.Time)(nil), []byte(`[]`),
			))

		created, err := repo.CreateTask(ctx, task)

		require.NoError(t, err)
		assert.Equal(t, 7, created.ID)
		assert.Equal(t, models.StatusOpen, created.Status)
		assert.Equal(t, createdAt, created.CreatedAt)
		assert.Nil(t, created.DueDate)
		assert.Empty(t, created.Comments)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure - insert error", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewTaskRepository(mock, newTestMetrics())

		mock.ExpectQuery("INSERT INTO tasks").
			WithArgs(task.Title, task.Description, task.Department, task.Status, task.CreatedBy, task.DueDate).
			WillReturnError(assert.AnError)

		_, err = repo.CreateTask(ctx, task)

		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to insert new task")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateTaskStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE tasks SET status = $1 WHERE id = $2")).
			WithArgs("cerrado", 5).
			WillReturnRows(pgxmock.NewRows(taskCols).AddRow(
				5, "Fix AC", "", "Mantenimiento", "cerrado", "recepcion", time.Now(), (*time.Time)(nil), []byte(`[]`),
			))

		repo := repository.NewTaskRepository(mock, newTestMetrics())
		task, err := repo.UpdateTaskStatus(ctx, 5, "cerrado")

		require.NoError(t, err)
		assert.Equal(t, "cerrado", task.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure - not found", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE tasks SET status = $1 WHERE id = $2")).
			WithArgs("cerrado", 404).
			WillReturnError(pgx.ErrNoRows)

		repo := repository.NewTaskRepository(mock, newTestMetrics())
		_, err = repo.UpdateTaskStatus(ctx, 404, "cerrado")

		require.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure - db error", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		dbError := errors.New("DB error")
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE tasks SET status = $1 WHERE id = $2")).
			WithArgs("cerrado", 5).
			WillReturnError(dbError)

		repo := repository.NewTaskRepository(mock, newTestMetrics())
		_, err = repo.UpdateTaskStatus(ctx, 5, "cerrado")

		require.ErrorIs(t, err, dbError)
		require.NotErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// TestAppendTaskComment checks that comments come back in append order after the JSON round trip.
func TestAppendTaskComment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	first := models.Comment{Text: "Checked compressor", Author: "mantto1", Date: time.Date(2025, 3, 1, 11, 0, 0, 0, time.UTC)}
	second := models.Comment{Text: "Part ordered", Author: "mantto2", Date: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}

	t.Run("success - appended in order", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		arg, err := json.Marshal([]models.Comment{second})
		require.NoError(t, err)
		stored, err := json.Marshal([]models.Comment{first, second})
		require.NoError(t, err)

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE tasks SET comments = comments || $1::jsonb WHERE id = $2")).
			WithArgs(string(arg), 5).
			WillReturnRows(pgxmock.NewRows(taskCols).AddRow(
				5, "Fix AC", "", "Mantenimiento", "abierto", "recepcion", time.Now(), (*time.Time)(nil), stored,
			))

		repo := repository.NewTaskRepository(mock, newTestMetrics())
		task, err := repo.AppendTaskComment(ctx, 5, second)

		require.NoError(t, err)
		require.Len(t, task.Comments, 2)
		assert.Equal(t, first, task.Comments[0])
		assert.Equal(t, second, task.Comments[1])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure - not found", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("UPDATE tasks SET comments").
			WithArgs(pgxmock.AnyArg(), 8).
			WillReturnError(pgx.ErrNoRows)

		repo := repository.NewTaskRepository(mock, newTestMetrics())
		_, err = repo.AppendTaskComment(ctx, 8, first)

		require.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure - corrupt comments", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("UPDATE tasks SET comments").
			WithArgs(pgxmock.AnyArg(), 5).
			WillReturnRows(pgxmock.NewRows(taskCols).AddRow(
				5, "Fix AC", "", "Mantenimiento", "abierto", "recepcion", time.Now(), (*time.Time)(nil), []byte(`{bad`),
			))

		repo := repository.NewTaskRepository(mock, newTestMetrics())
		_, err = repo.AppendTaskComment(ctx, 5, first)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode comments")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListTasks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success - all", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(regexp.QuoteMeta("FROM tasks ORDER BY id DESC")).
			WillReturnRows(pgxmock.NewRows(taskCols).
				AddRow(2, "B", "", "Recepcion", "abierto", "a", time.Now(), (*time.Time)(nil), []byte(`[]`)).
				AddRow(1, "A", "", "Housekeeping", "cerrado", "b", time.Now(), (*time.Time)(nil), []byte(`[]`)))

		repo := repository.NewTaskRepository(mock, newTestMetrics())
		tasks, err := repo.ListTasks(ctx)

		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, 2, tasks[0].ID)
		assert.Equal(t, 1, tasks[1].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - by department, empty", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(regexp.QuoteMeta("FROM tasks WHERE department = $1 ORDER BY id DESC")).
			WithArgs("Seguridad").
			WillReturnRows(pgxmock.NewRows(taskCols))

		repo := repository.NewTaskRepository(mock, newTestMetrics())
		tasks, err := repo.ListTasksByDepartment(ctx, "Seguridad")

		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure - query error", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("FROM tasks WHERE department").
			WithArgs("Seguridad").
			WillReturnError(assert.AnError)

		repo := repository.NewTaskRepository(mock, newTestMetrics())
		_, err = repo.ListTasksByDepartment(ctx, "Seguridad")

		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDueTasks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	before := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("list", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		due := before.Add(-time.Minute)
		mock.ExpectQuery("reminded_at IS NULL").
			WithArgs(before, models.StatusClosed).
			WillReturnRows(pgxmock.NewRows(taskCols).
				AddRow(3, "Inspect pool", "", "Mantenimiento", "abierto", "a", time.Now(), &due, []byte(`[]`)))

		repo := repository.NewTaskRepository(mock, newTestMetrics())
		tasks, err := repo.ListDueTasks(ctx, before)

		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, 3, tasks[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("mark reminded", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks SET reminded_at = CURRENT_TIMESTAMP WHERE id = $1")).
			WithArgs(3).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := repository.NewTaskRepository(mock, newTestMetrics())

		require.NoError(t, repo.MarkReminded(ctx, 3))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDecodeComments(t *testing.T) {
	t.Parallel()

	empty, err := repository.DecodeComments(nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	comments, err := repository.DecodeComments(
		[]byte(`[{"text":"uno","author":"a","date":"2025-03-01T10:00:00Z"},{"text":"dos","author":"b","date":"2025-03-01T11:00:00Z"}]`),
	)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "uno", comments[0].Text)
	assert.Equal(t, "dos", comments[1].Text)

	_, err = repository.DecodeComments([]byte(`not json`))
	require.Error(t, err)
}
