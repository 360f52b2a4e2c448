package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/UnknownOlympus/hestia/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunServers_FailureStopsTheRest(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		runServers(ctx, cancel, slog.New(slog.DiscardHandler),
			func(context.Context) error { return errors.New("address already in use") },
			func(ctx context.Context) error {
				<-ctx.Done()
				return nil
			},
		)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("servers kept running after one of them failed")
	}
	require.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestRunServers_CleanStop(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())

	stopped := 0
	cancel()
	runServers(ctx, func() { t.Error("cancel must not be called on a clean stop") }, slog.New(slog.DiscardHandler),
		func(ctx context.Context) error {
			<-ctx.Done()
			stopped++
			return nil
		},
	)

	assert.Equal(t, 1, stopped)
}

func TestRunHTTPServer_PortInUse(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	err = runHTTPServer(ctx, slog.New(slog.DiscardHandler), config.HTTPConfig{
		Address:         listener.Addr().String(),
		ShutdownTimeout: time.Second,
	}, http.NotFoundHandler())

	require.Error(t, err)
}

func TestRunHTTPServer_ShutsDownWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())

	result := make(chan error, 1)
	go func() {
		result <- runHTTPServer(ctx, slog.New(slog.DiscardHandler), config.HTTPConfig{
			Address:         "127.0.0.1:0",
			ShutdownTimeout: time.Second,
		}, http.NotFoundHandler())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-result:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("HTTP server did not stop")
	}
}
