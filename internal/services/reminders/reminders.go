package reminders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/robfig/cron/v3"
)

const dueLayout = "02/01/2006 15:04"

// DueTaskStore is the part of the task repository reminders need.
type DueTaskStore interface {
	ListDueTasks(ctx context.Context, before time.Time) ([]models.Task, error)
	MarkReminded(ctx context.Context, id int) error
}

type Notifier interface {
	Enqueue(n models.Notification) error
}

// Broadcaster reaches the connected clients of a department.
type Broadcaster interface {
	BroadcastToDepartment(department string, event models.TaskEvent)
}

// Service alerts departments about open tasks whose due date is close.
type Service struct {
	log         *slog.Logger
	store       DueTaskStore
	broadcaster Broadcaster
	notifier    Notifier
	metrics     *metrics.Metrics
	window      time.Duration
	now         func() time.Time
}

func NewService(
	log *slog.Logger,
	store DueTaskStore,
	broadcaster Broadcaster,
	notifier Notifier,
	metrics *metrics.Metrics,
	window time.Duration,
) *Service {
	return &Service{
		log:         log,
		store:       store,
		broadcaster: broadcaster,
		notifier:    notifier,
		metrics:     metrics,
		window:      window,
		now:         time.Now,
	}
}

func (s *Service) initLogger(opn string) *slog.Logger {
	return s.log.With(
		slog.String("op", opn),
		slog.String("division", "reminders"),
	)
}

// Start schedules Run with a cron spec and stops the scheduler when ctx is done.
// The returned channel is closed once the scheduler has fully stopped.
func (s *Service) Start(ctx context.Context, schedule string) (<-chan struct{}, error) {
	const opn = "Reminders.Start"
	log := s.initLogger(opn)

	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	_, err := scheduler.AddFunc(schedule, func() {
		if _, runErr := s.Run(ctx); runErr != nil {
			log.ErrorContext(ctx, "reminder run failed", sl.Err(runErr))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}

	scheduler.Start()
	log.InfoContext(ctx, "reminder scheduler started", "schedule", schedule, "window", s.window.String())

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		<-scheduler.Stop().Done()
		log.Info("reminder scheduler stopped")
	}()

	return done, nil
}

// Run announces every open task due within the window to its department and
// queues an offline reminder for it. The dispatcher drops the reminder when
// the department is online, so the broadcast is what reaches connected
// clients. Returns how many tasks were marked reminded. A task whose reminder
// could not be queued is retried on the next run.
func (s *Service) Run(ctx context.Context) (int, error) {
	const opn = "Reminders.Run"
	log := s.initLogger(opn)

	due, err := s.store.ListDueTasks(ctx, s.now().Add(s.window))
	if err != nil {
		s.record("failure")
		return 0, fmt.Errorf("failed to list due tasks: %w", err)
	}

	var (
		sent int
		errs []error
	)

	for _, task := range due {
		s.broadcaster.BroadcastToDepartment(task.Department, models.TaskDue(task))

		if err = s.notifier.Enqueue(reminderFor(task)); err != nil {
			log.WarnContext(ctx, "reminder was not queued", "task_id", task.ID, sl.Err(err))
			continue
		}

		if err = s.store.MarkReminded(ctx, task.ID); err != nil {
			errs = append(errs, err)
			continue
		}
		sent++
	}

	if len(errs) > 0 {
		s.record("failure")
		return sent, errors.Join(errs...)
	}

	s.record("success")
	if sent > 0 {
		log.InfoContext(ctx, "reminders queued", "count", sent)
	}

	return sent, nil
}

func reminderFor(task models.Task) models.Notification {
	body := task.Title
	if task.DueDate != nil {
		body = fmt.Sprintf("%s vence %s", task.Title, task.DueDate.Format(dueLayout))
	}

	return models.Notification{
		Department: task.Department,
		Title:      "Tarea por vencer",
		Body:       body,
		TaskID:     task.ID,
	}
}

func (s *Service) record(status string) {
	if s.metrics != nil {
		s.metrics.ReminderRuns.WithLabelValues(status).Inc()
	}
}
