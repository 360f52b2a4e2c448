package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the various metrics used for monitoring the application.
// It covers the HTTP API, database queries, realtime connections and
// the offline notification pipeline.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
	DBQueryDuration     *prometheus.HistogramVec
	RealtimeConnections prometheus.Gauge
	OnlineDepartments   prometheus.Gauge
	BroadcastEvents     *prometheus.CounterVec
	NotificationsSent   *prometheus.CounterVec
	SubscriptionsPruned prometheus.Counter
	DispatchRejected    prometheus.Counter
	DispatchQueueDepth  prometheus.Gauge
	ReminderRuns        *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with the provided Registerer.
//
// Parameters:
//   - reg: A prometheus.Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hestia_http_requests_total",
			Help: "Total HTTP requests served by the API.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hestia_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hestia_db_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: 'create_task', 'list_subscriptions'
		RealtimeConnections: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "hestia_realtime_connections",
			Help: "Number of open realtime socket connections.",
		}),
		OnlineDepartments: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "hestia_online_departments",
			Help: "Number of departments with at least one live realtime connection.",
		}),
		BroadcastEvents: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hestia_broadcast_events_total",
			Help: "Realtime events published, by event type.",
		}, []string{"type"}),
		NotificationsSent: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hestia_notifications_total",
			Help: "Offline notification delivery attempts, by channel and result.",
		}, []string{"channel", "result"}),
		SubscriptionsPruned: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "hestia_push_subscriptions_pruned_total",
			Help: "Push subscriptions removed because the provider reported them gone.",
		}),
		DispatchRejected: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "hestia_dispatch_rejected_total",
			Help: "Notifications rejected because the dispatch queue was full or closed.",
		}),
		DispatchQueueDepth: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "hestia_dispatch_queue_depth",
			Help: "Notifications waiting for a dispatch worker.",
		}),
		ReminderRuns: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hestia_reminder_runs_total",
			Help: "Due-date reminder runs, by status.",
		}, []string{"status"}),
	}

	metrics.ReminderRuns.WithLabelValues("success")
	metrics.ReminderRuns.WithLabelValues("failure")

	return metrics
}
