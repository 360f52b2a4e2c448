package metrics_test

import (
	"testing"

	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()

	m := metrics.NewMetrics(reg)

	m.NotificationsSent.WithLabelValues("push", "success").Inc()
	assert.InDelta(t, 1, testutil.ToFloat64(m.NotificationsSent.WithLabelValues("push", "success")), 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNewMetrics_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	_ = metrics.NewMetrics(reg)

	assert.Panics(t, func() { _ = metrics.NewMetrics(reg) })
}
