package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/jackc/pgx/v5"
)

const taskColumns = `id, title, description, department, status, created_by, created_at, due_date, comments`

// CreateTask inserts a new task and returns it with the store-assigned fields filled in.
func (r *Repository) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	defer r.observe("create_task", time.Now())

	query := `
		INSERT INTO tasks (title, description, department, status, created_by, due_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + taskColumns

	created, err := scanTask(r.db.QueryRow(ctx, query,
		task.Title, task.Description, task.Department, task.Status, task.CreatedBy, task.DueDate,
	))
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to insert new task: %w", err)
	}

	return created, nil
}

// UpdateTaskStatus sets the status of a task and returns the updated row.
func (r *Repository) UpdateTaskStatus(ctx context.Context, id int, status string) (models.Task, error) {
	defer r.observe("update_task_status", time.Now())

	query := `UPDATE tasks SET status = $1 WHERE id = $2 RETURNING ` + taskColumns

	task, err := scanTask(r.db.QueryRow(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Task{}, fmt.Errorf("task '%d': %w", id, ErrNotFound)
		}
		return models.Task{}, fmt.Errorf("task status update error '%d': %w", id, err)
	}

	return task, nil
}

// AppendTaskComment appends a comment to the end of the task's comment list.
// The append happens inside a single statement, so concurrent writers never lose comments.
func (r *Repository) AppendTaskComment(ctx context.Context, id int, comment models.Comment) (models.Task, error) {
	defer r.observe("append_task_comment", time.Now())

	encoded, err := json.Marshal([]models.Comment{comment})
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to encode comment: %w", err)
	}

	query := `UPDATE tasks SET comments = comments || $1::jsonb WHERE id = $2 RETURNING ` + taskColumns

	task, err := scanTask(r.db.QueryRow(ctx, query, string(encoded), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Task{}, fmt.Errorf("task '%d': %w", id, ErrNotFound)
		}
		return models.Task{}, fmt.Errorf("failed to append comment to task '%d': %w", id, err)
	}

	return task, nil
}

// ListTasks returns every task, newest first.
func (r *Repository) ListTasks(ctx context.Context) ([]models.Task, error) {
	defer r.observe("list_tasks", time.Now())

	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY id DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return collectTasks(rows)
}

// ListTasksByDepartment returns the tasks of one department, newest first.
func (r *Repository) ListTasksByDepartment(ctx context.Context, department string) ([]models.Task, error) {
	defer r.observe("list_tasks_by_department", time.Now())

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE department = $1 ORDER BY id DESC`

	rows, err := r.db.Query(ctx, query, department)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks of department '%s': %w", department, err)
	}

	return collectTasks(rows)
}

// ListDueTasks returns open tasks due before the given instant that were not reminded yet.
func (r *Repository) ListDueTasks(ctx context.Context, before time.Time) ([]models.Task, error) {
	defer r.observe("list_due_tasks", time.Now())

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE due_date IS NOT NULL AND due_date <= $1 AND status <> $2 AND reminded_at IS NULL
		ORDER BY due_date`

	rows, err := r.db.Query(ctx, query, before, models.StatusClosed)
	if err != nil {
		return nil, fmt.Errorf("failed to list due tasks: %w", err)
	}

	return collectTasks(rows)
}

// MarkReminded records that a due-date reminder went out for the task.
func (r *Repository) MarkReminded(ctx context.Context, id int) error {
	defer r.observe("mark_reminded", time.Now())

	_, err := r.db.Exec(ctx, `UPDATE tasks SET reminded_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark task '%d' as reminded: %w", id, err)
	}

	return nil
}

func collectTasks(rows pgx.Rows) ([]models.Task, error) {
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over tasks: %w", err)
	}

	return tasks, nil
}

func scanTask(row pgx.Row) (models.Task, error) {
	var (
		task     models.Task
		comments []byte
	)

	err := row.Scan(
		&task.ID, &task.Title, &task.Description, &task.Department, &task.Status,
		&task.CreatedBy, &task.CreatedAt, &task.DueDate, &comments,
	)
	if err != nil {
		return models.Task{}, err
	}

	task.Comments, err = DecodeComments(comments)
	if err != nil {
		return models.Task{}, err
	}

	return task, nil
}

// DecodeComments parses the stored JSON comment list. Empty input yields an empty list.
func DecodeComments(raw []byte) ([]models.Comment, error) {
	comments := make([]models.Comment, 0)
	if len(raw) == 0 {
		return comments, nil
	}

	if err := json.Unmarshal(raw, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}

	return comments, nil
}
