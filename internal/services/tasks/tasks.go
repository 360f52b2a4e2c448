package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/repository"
)

var (
	ErrUnknownDepartment = errors.New("unknown department")
	ErrNotFound          = errors.New("task not found")
	ErrEmptyTitle        = errors.New("task title must not be empty")
	ErrEmptyUpdate       = errors.New("update must change the status or add a comment")
	ErrEmptyComment      = errors.New("comment text must not be empty")
	ErrEmptyStatus       = errors.New("status must not be empty")
)

// Broadcaster publishes realtime task events.
type Broadcaster interface {
	BroadcastToDepartment(department string, event models.TaskEvent)
}

// Notifier queues offline alerts. It must not block.
type Notifier interface {
	Enqueue(n models.Notification) error
}

type NewTask struct {
	Title       string
	Description string
	Department  string
	DueDate     *time.Time
}

// Update is a partial task change. Nil fields are left untouched.
type Update struct {
	Status  *string
	Comment *string
}

type TaskService struct {
	log         *slog.Logger
	repo        repository.TaskRepoIface
	broadcaster Broadcaster
	notifier    Notifier
	departments departmentSet
	now         func() time.Time
}

func NewTaskService(
	log *slog.Logger,
	repo repository.TaskRepoIface,
	broadcaster Broadcaster,
	notifier Notifier,
	departments []string,
) *TaskService {
	return &TaskService{
		log:         log,
		repo:        repo,
		broadcaster: broadcaster,
		notifier:    notifier,
		departments: newDepartmentSet(departments),
		now:         time.Now,
	}
}

func (ts *TaskService) initLogger(opn string) *slog.Logger {
	return ts.log.With(
		slog.String("op", opn),
		slog.String("division", "task"),
	)
}

// Departments returns the configured department set in configuration order.
func (ts *TaskService) Departments() []string {
	return ts.departments.list()
}

// Create validates and stores a new open task, publishes it and alerts the
// department when it is offline.
func (ts *TaskService) Create(ctx context.Context, author string, in NewTask) (models.Task, error) {
	const opn = "Tasks.Create"
	log := ts.initLogger(opn)

	task, err := ts.validateNew(author, in)
	if err != nil {
		return models.Task{}, err
	}

	created, err := ts.repo.CreateTask(ctx, task)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	log.InfoContext(ctx, "task created", "task_id", created.ID, sl.Department(created.Department), "author", author)

	ts.broadcaster.BroadcastToDepartment(created.Department, models.TaskCreated(created))
	ts.notify(ctx, log, models.Notification{
		Department: created.Department,
		Title:      "Nueva tarea",
		Body:       created.Title + " - " + created.Department,
		TaskID:     created.ID,
	})

	return created, nil
}

// AddComment appends a comment authored by author with the current server time.
func (ts *TaskService) AddComment(ctx context.Context, id int, author, text string) (models.Task, error) {
	return ts.Update(ctx, id, author, Update{Comment: &text})
}

// Update applies the status change first and the comment second. Each applied
// change is published and alerted separately.
func (ts *TaskService) Update(ctx context.Context, id int, author string, upd Update) (models.Task, error) {
	const opn = "Tasks.Update"
	log := ts.initLogger(opn)

	status, comment, err := normalizeUpdate(upd)
	if err != nil {
		return models.Task{}, err
	}

	var task models.Task

	if status != "" {
		task, err = ts.repo.UpdateTaskStatus(ctx, id, status)
		if err != nil {
			return models.Task{}, mapRepoError(id, err)
		}

		log.InfoContext(ctx, "task status updated", "task_id", id, "status", status)

		ts.broadcaster.BroadcastToDepartment(task.Department, models.TaskStatusChanged(id, task.Status))
		ts.notify(ctx, log, models.Notification{
			Department: task.Department,
			Title:      "Estado actualizado",
			Body:       "Nuevo estado: " + task.Status,
			TaskID:     id,
		})
	}

	if comment != "" {
		entry := models.Comment{Text: comment, Author: author, Date: ts.now().UTC()}

		task, err = ts.repo.AppendTaskComment(ctx, id, entry)
		if err != nil {
			return models.Task{}, mapRepoError(id, err)
		}

		log.InfoContext(ctx, "task commented", "task_id", id, "author", author)

		ts.broadcaster.BroadcastToDepartment(task.Department, models.TaskCommented(id, entry))
		ts.notify(ctx, log, models.Notification{
			Department: task.Department,
			Title:      "Nuevo comentario",
			Body:       author + ": " + comment,
			TaskID:     id,
		})
	}

	return task, nil
}

// List returns every task, newest first.
func (ts *TaskService) List(ctx context.Context) ([]models.Task, error) {
	tasks, err := ts.repo.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// ListByDepartment returns the tasks of one department, newest first.
func (ts *TaskService) ListByDepartment(ctx context.Context, department string) ([]models.Task, error) {
	if !ts.departments.has(department) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDepartment, department)
	}

	tasks, err := ts.repo.ListTasksByDepartment(ctx, department)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks of department: %w", err)
	}

	return tasks, nil
}

// notify never fails the caller; a rejected alert is only logged.
func (ts *TaskService) notify(ctx context.Context, log *slog.Logger, n models.Notification) {
	if err := ts.notifier.Enqueue(n); err != nil {
		log.WarnContext(ctx, "notification was not queued",
			sl.Department(n.Department), "title", n.Title, sl.Err(err))
	}
}
