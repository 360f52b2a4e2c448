package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const probeTimeout = 3 * time.Second

type DBPinger interface {
	Ping(ctx context.Context) error
}

// Probe is an extra named component check. The returned string is reported
// as the component status; a non-nil error marks it degraded and fails the
// whole check.
type Probe struct {
	Name  string
	Check func(ctx context.Context) (string, error)
}

// Presence is what PresenceProbe reads from the presence tracker.
type Presence interface {
	Online() []string
	Connections(department string) int
}

// PresenceProbe reports the online departments with their connection counts,
// e.g. "Housekeeping:2,Recepcion:1". It never fails.
func PresenceProbe(tracker Presence) Probe {
	return Probe{
		Name: "presence",
		Check: func(context.Context) (string, error) {
			online := tracker.Online()
			if len(online) == 0 {
				return "none", nil
			}

			parts := make([]string, 0, len(online))
			for _, dept := range online {
				parts = append(parts, dept+":"+strconv.Itoa(tracker.Connections(dept)))
			}

			return strings.Join(parts, ","), nil
		},
	}
}

type HealthChecker struct {
	db     DBPinger
	probes []Probe
	log    *slog.Logger
}

func NewHealthChecker(db DBPinger, log *slog.Logger, probes ...Probe) *HealthChecker {
	return &HealthChecker{
		db:     db,
		probes: probes,
		log:    log,
	}
}

func (h *HealthChecker) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	h.log.DebugContext(req.Context(), "Performing health checks...")

	var err error
	status := make(map[string]string)
	overallStatus := http.StatusOK

	ctx, cancel := context.WithTimeout(req.Context(), probeTimeout)
	defer cancel()

	if err = h.db.Ping(ctx); err != nil {
		status["database"] = "unavailable"
		overallStatus = http.StatusServiceUnavailable
		h.log.WarnContext(req.Context(), "Health check failed: DB ping", "error", err)
	} else {
		status["database"] = "ok"
	}

	for _, probe := range h.probes {
		value, probeErr := probe.Check(ctx)
		if probeErr != nil {
			status[probe.Name] = "degraded"
			overallStatus = http.StatusServiceUnavailable
			h.log.WarnContext(req.Context(), "Health check failed", "component", probe.Name, "error", probeErr)
			continue
		}
		if value == "" {
			value = "ok"
		}
		status[probe.Name] = value
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(overallStatus)
	if err = json.NewEncoder(writer).Encode(status); err != nil {
		h.log.ErrorContext(req.Context(), "Failed to write health check response", "error", err)
	}

	h.log.DebugContext(req.Context(), "Health checks completed", "status", overallStatus)
}
