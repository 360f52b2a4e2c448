package client

import (
	"log/slog"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// CreateHTTPClient initializes the HTTP client used for calls to notification providers.
// A non-positive timeout falls back to ten seconds.
func CreateHTTPClient(log *slog.Logger, timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &loggingTransport{
			log:  log,
			next: http.DefaultTransport,
		},
		CheckRedirect: func(req *http.Request, _ []*http.Request) error {
			log.Debug("Redirected to URL", "URL", req.URL)

			return nil
		},
	}
}

// loggingTransport logs every outbound request at debug level.
type loggingTransport struct {
	log  *slog.Logger
	next http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.log.DebugContext(req.Context(), "Outbound request failed",
			"host", req.URL.Host, "duration", time.Since(start), "error", err)
		return nil, err
	}

	t.log.DebugContext(req.Context(), "Outbound request",
		"host", req.URL.Host, "status_code", resp.StatusCode, "duration", time.Since(start))

	return resp, nil
}
