// Package realtime publishes task events to connected board clients over websockets.
package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/presence"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Identity is the verified session behind a connection.
type Identity struct {
	Username   string
	Role       string
	Department string
}

type Options struct {
	// CrossDepartmentRoles receive events of every department.
	CrossDepartmentRoles []string
	// AllowedOrigins limits browser origins; empty or "*" allows all.
	AllowedOrigins []string
}

type Hub struct {
	log        *slog.Logger
	presence   presence.Tracker
	metrics    *metrics.Metrics
	crossRoles map[string]struct{}
	upgrader   websocket.Upgrader

	mu      sync.RWMutex
	clients map[*Client]struct{}
	closed  bool
}

func NewHub(log *slog.Logger, tracker presence.Tracker, metrics *metrics.Metrics, opts Options) *Hub {
	crossRoles := make(map[string]struct{}, len(opts.CrossDepartmentRoles))
	for _, role := range opts.CrossDepartmentRoles {
		crossRoles[role] = struct{}{}
	}

	hub := &Hub{
		log:        log.With(slog.String("division", "realtime")),
		presence:   tracker,
		metrics:    metrics,
		crossRoles: crossRoles,
		clients:    make(map[*Client]struct{}),
	}
	hub.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(opts.AllowedOrigins),
	}

	return hub
}

// ServeWS upgrades the request and attaches the connection to the hub. The
// caller is responsible for authenticating the identity.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, identity Identity) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already replied with an HTTP error
		h.log.Warn("websocket upgrade failed", sl.Department(identity.Department), sl.Err(err))
		return
	}

	client := newClient(h, conn, identity)
	if !h.register(client) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (h *Hub) register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}

	h.clients[c] = struct{}{}
	h.presence.MarkOnline(c.identity.Department)
	if h.metrics != nil {
		h.metrics.RealtimeConnections.Inc()
	}

	h.log.Debug("client connected", "client_id", c.id, "username", c.identity.Username,
		sl.Department(c.identity.Department))

	return true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.detach(c)
}

// detach must be called with mu held. Unknown clients are ignored.
func (h *Hub) detach(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	delete(h.clients, c)
	close(c.send)
	h.presence.MarkOffline(c.identity.Department)
	if h.metrics != nil {
		h.metrics.RealtimeConnections.Dec()
	}

	h.log.Debug("client disconnected", "client_id", c.id, sl.Department(c.identity.Department))
}

// BroadcastAll sends the event to every connected client.
func (h *Hub) BroadcastAll(event models.TaskEvent) {
	h.publish(event, func(*Client) bool { return true })
}

// BroadcastToDepartment sends the event to the department's clients and to
// clients whose role sees every department.
func (h *Hub) BroadcastToDepartment(department string, event models.TaskEvent) {
	h.publish(event, func(c *Client) bool {
		return c.crossDepartment || c.identity.Department == department
	})
}

func (h *Hub) publish(event models.TaskEvent, match func(*Client) bool) {
	message, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to encode realtime event", "type", event.Type, sl.Err(err))
		return
	}

	if h.metrics != nil {
		h.metrics.BroadcastEvents.WithLabelValues(string(event.Type)).Inc()
	}

	var slow []*Client

	h.mu.RLock()
	for c := range h.clients {
		if !match(c) {
			continue
		}
		select {
		case c.send <- message:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	if len(slow) == 0 {
		return
	}

	h.mu.Lock()
	for _, c := range slow {
		h.log.Warn("dropping slow client", "client_id", c.id, sl.Department(c.identity.Department))
		h.detach(c)
	}
	h.mu.Unlock()
}

// Clients returns the number of attached connections.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Close detaches every client and refuses new connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for c := range h.clients {
		h.detach(c)
	}
}

func (h *Hub) isCrossDepartment(role string) bool {
	_, ok := h.crossRoles[role]
	return ok
}

// originChecker accepts browsers from the allowed origins. Same-origin
// requests and clients that send no Origin are always accepted.
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || sameOrigin(origin, r.Host) {
			return true
		}

		for _, candidate := range allowed {
			if candidate == "*" || strings.EqualFold(candidate, origin) {
				return true
			}
		}

		return false
	}
}

func sameOrigin(origin, host string) bool {
	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}

	return strings.EqualFold(parsed.Host, host)
}

func newClientID() string {
	return uuid.NewString()
}
