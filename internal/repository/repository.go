package repository

import (
	"context"
	"errors"
	"time"

	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

type Repository struct {
	db      Database
	metrics *metrics.Metrics
}

// TaskRepoIface represents the interface for interacting with task data in the repository.
type TaskRepoIface interface {
	CreateTask(ctx context.Context, task models.Task) (models.Task, error)
	UpdateTaskStatus(ctx context.Context, id int, status string) (models.Task, error)
	AppendTaskComment(ctx context.Context, id int, comment models.Comment) (models.Task, error)
	ListTasks(ctx context.Context) ([]models.Task, error)
	ListTasksByDepartment(ctx context.Context, department string) ([]models.Task, error)
	ListDueTasks(ctx context.Context, before time.Time) ([]models.Task, error)
	MarkReminded(ctx context.Context, id int) error
}

func NewTaskRepository(db Database, metrics *metrics.Metrics) TaskRepoIface {
	return &Repository{db: db, metrics: metrics}
}

// SubscriptionRepoIface stores browser push registrations.
type SubscriptionRepoIface interface {
	SaveSubscription(ctx context.Context, sub models.PushSubscription) error
	ListSubscriptionsByDepartment(ctx context.Context, department string) ([]models.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

func NewSubscriptionRepository(db Database, metrics *metrics.Metrics) SubscriptionRepoIface {
	return &Repository{db: db, metrics: metrics}
}

// UserRepoIface represents the interface for interacting with staff accounts.
type UserRepoIface interface {
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	EnsureUser(ctx context.Context, user models.User) (bool, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) error
	ListPhonesByDepartment(ctx context.Context, department string) ([]string, error)
}

func NewUserRepository(db Database, metrics *metrics.Metrics) UserRepoIface {
	return &Repository{db: db, metrics: metrics}
}

type SettingsRepoIface interface {
	GetSettings(ctx context.Context) (map[string]string, error)
	SaveSettings(ctx context.Context, values map[string]string) error
}

func NewSettingsRepository(db Database, metrics *metrics.Metrics) SettingsRepoIface {
	return &Repository{db: db, metrics: metrics}
}

func (r *Repository) observe(queryType string, startTime time.Time) {
	if r.metrics == nil {
		return
	}
	r.metrics.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(startTime).Seconds())
}
