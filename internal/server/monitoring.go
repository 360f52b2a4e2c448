package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	monitoringReadTimeout = 5 * time.Second
	shutdownTimeout       = 5 * time.Second
)

// NewMonitoringHandler serves /metrics from reg and /healthz from health.
func NewMonitoringHandler(reg *prometheus.Registry, health http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.Handle("/healthz", health)

	return mux
}

// StartMonitoringServer runs the metrics and health endpoints until ctx is done.
// It returns an error only when the server could not serve.
func StartMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	health http.Handler,
	port int,
) error {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           NewMonitoringHandler(reg, health),
		ReadHeaderTimeout: monitoringReadTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Monitoring server shutdown failed", "error", err)
		}
	}()

	log.InfoContext(ctx, "Starting monitoring server", "port", port)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("monitoring server failed: %w", err)
	}

	log.Info("Monitoring server stopped")

	return nil
}
