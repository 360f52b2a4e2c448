package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/UnknownOlympus/hestia/internal/api"
	"github.com/UnknownOlympus/hestia/internal/auth"
	"github.com/UnknownOlympus/hestia/internal/client"
	"github.com/UnknownOlympus/hestia/internal/config"
	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/notify"
	"github.com/UnknownOlympus/hestia/internal/presence"
	"github.com/UnknownOlympus/hestia/internal/realtime"
	"github.com/UnknownOlympus/hestia/internal/repository"
	"github.com/UnknownOlympus/hestia/internal/server"
	"github.com/UnknownOlympus/hestia/internal/services/reminders"
	"github.com/UnknownOlympus/hestia/internal/services/settings"
	"github.com/UnknownOlympus/hestia/internal/services/subscriptions"
	"github.com/UnknownOlympus/hestia/internal/services/tasks"
	"github.com/UnknownOlympus/hestia/internal/services/users"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sourcegraph/conc"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	dtb, err := repository.NewDatabase(cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User,
		cfg.Postgres.Password, cfg.Postgres.Dbname, cfg.Postgres.SSLMode)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer dtb.Close()

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("Failed to set up session tokens: %v", err)
	}

	taskRepo := repository.NewTaskRepository(dtb, appMetrics)
	subRepo := repository.NewSubscriptionRepository(dtb, appMetrics)
	userRepo := repository.NewUserRepository(dtb, appMetrics)
	settingsRepo := repository.NewSettingsRepository(dtb, appMetrics)

	tracker := presence.NewCounter(appMetrics.OnlineDepartments)
	hub := realtime.NewHub(logger, tracker, appMetrics, realtime.Options{
		CrossDepartmentRoles: cfg.Auth.CrossDepartmentRoles,
		AllowedOrigins:       cfg.HTTP.AllowedOrigins,
	})

	dispatcher := newDispatcher(logger, cfg, tracker, subRepo, userRepo, appMetrics)
	dispatcher.Start()

	userService := users.NewService(logger, userRepo, tokens, cfg.Departments)
	if err = userService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword,
		cfg.Auth.AdminDepartment); err != nil {
		logger.ErrorContext(ctx, "Failed to bootstrap admin user", sl.Err(err))
	}

	settingsService := settings.NewService(logger, settingsRepo)
	if _, err = settingsService.Load(ctx); err != nil {
		logger.WarnContext(ctx, "Failed to load settings, serving defaults", sl.Err(err))
	}

	taskService := tasks.NewTaskService(logger, taskRepo, hub, dispatcher, cfg.Departments)

	handler := api.NewHandler(logger, appMetrics, api.Deps{
		Tasks:         taskService,
		Users:         userService,
		Settings:      settingsService,
		Subscriptions: subscriptions.NewService(logger, subRepo),
		Tokens:        tokens,
		Realtime:      hub,
	}, api.Options{
		Env:                  cfg.Env,
		AllowedOrigins:       cfg.HTTP.AllowedOrigins,
		CrossDepartmentRoles: cfg.Auth.CrossDepartmentRoles,
		StaticDir:            cfg.HTTP.StaticDir,
	})

	reminderService := reminders.NewService(logger, taskRepo, hub, dispatcher, appMetrics, cfg.Reminders.Window)
	remindersDone, err := reminderService.Start(ctx, cfg.Reminders.Schedule)
	if err != nil {
		log.Fatalf("Failed to start reminders: %v", err)
	}

	health := server.NewHealthChecker(dtb, logger,
		server.Probe{Name: "dispatcher", Check: dispatcher.Status},
		server.PresenceProbe(tracker),
	)

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.", "address", cfg.HTTP.Address)

	runServers(ctx, stop, logger,
		func(ctx context.Context) error {
			return server.StartMonitoringServer(ctx, logger, reg, health, cfg.Monitoring.Port)
		},
		func(ctx context.Context) error {
			return runHTTPServer(ctx, logger, cfg.HTTP, handler.Router())
		},
	)

	// no more requests or reminder runs can enqueue work past this point
	hub.Close()
	<-remindersDone
	dispatcher.Close()

	logger.InfoContext(context.Background(), "Application stopped gracefully...")
}

func newDispatcher(
	logger *slog.Logger,
	cfg *config.Config,
	tracker presence.Tracker,
	subRepo repository.SubscriptionRepoIface,
	userRepo repository.UserRepoIface,
	appMetrics *metrics.Metrics,
) *notify.Dispatcher {
	dispatcher := notify.NewDispatcher(logger, tracker, subRepo, appMetrics, notify.Options{
		Workers:             cfg.Notifications.Workers,
		QueueSize:           cfg.Notifications.QueueSize,
		DeliveryConcurrency: cfg.Notifications.DeliveryConcurrency,
		DeliveryTimeout:     cfg.Notifications.DeliveryTimeout,
	})

	if cfg.Notifications.HasChannel(notify.ChannelPush) {
		httpClient := client.CreateHTTPClient(logger, cfg.Notifications.DeliveryTimeout)
		dispatcher.WithPush(notify.NewWebPushSender(cfg.WebPush, httpClient))
		logger.Info("Push notifications enabled")
	}

	if cfg.Notifications.HasChannel(notify.ChannelWhatsApp) {
		dispatcher.WithWhatsApp(userRepo, notify.NewWhatsAppSender(cfg.WhatsApp))
		logger.Info("WhatsApp notifications enabled")
	}

	return dispatcher
}

// runServers runs every server until ctx is done. The first server that fails
// cancels ctx so the others shut down too and the process can exit.
func runServers(
	ctx context.Context,
	cancel context.CancelFunc,
	logger *slog.Logger,
	servers ...func(ctx context.Context) error,
) {
	var wgr conc.WaitGroup

	for _, serve := range servers {
		wgr.Go(func() {
			if err := serve(ctx); err != nil {
				logger.Error("Server stopped unexpectedly, shutting down", sl.Err(err))
				cancel()
			}
		})
	}

	wgr.Wait()
}

func runHTTPServer(ctx context.Context, logger *slog.Logger, cfg config.HTTPConfig, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("Shutting down HTTP server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown failed", sl.Err(err))
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: false,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelWarn,
				AddSource:   false,
				ReplaceAttr: dropTime,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelError,
				AddSource:   false,
				ReplaceAttr: dropTime,
			}),
		)

		log.Error(
			"The env parameter was not specified, or was invalid. Logging will be minimal, by default." +
				" Please specify the value of `env`: local, development, production")
	}

	return log
}

func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
