package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"mnps-api/internal/event"
	"mnps-api/internal/middleware"
	"mnps-api/internal/model"
)

// Hub pushes bus events to connected websocket clients, filtered by each
// client's role.
type Hub struct {
	// Registered clients.
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	connected  atomic.Int64

	bus          event.Bus
	upgrader     websocket.Upgrader
	registerWait time.Duration
}

const defaultRegisterWait = 5 * time.Second

func NewHub(bus event.Bus, allowedOrigins []string) *Hub {
	h := &Hub{
		clients:      make(map[*Client]struct{}),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		done:         make(chan struct{}),
		bus:          bus,
		registerWait: defaultRegisterWait,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

// Run owns the client set until ctx is cancelled, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	events, unsubscribe := h.bus.Subscribe()
	defer unsubscribe()
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.remove(client)
			}
			return
		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.connected.Add(1)
		case client := <-h.unregister:
			h.remove(client)
		case e, ok := <-events:
			if !ok {
				return
			}
			h.dispatch(e)
		}
	}
}

// Connected returns the number of registered clients.
func (h *Hub) Connected() int {
	return int(h.connected.Load())
}

// ServeWS upgrades an authenticated request and registers the connection.
// Run must be running; a connection the hub does not accept within
// registerWait is closed.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err, "username", claims.Username)
		return
	}

	client := newClient(h, conn, claims.Username, claims.Role)
	timer := time.NewTimer(h.registerWait)
	defer timer.Stop()

	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return
	case <-r.Context().Done():
		_ = conn.Close()
		return
	case <-timer.C:
		slog.Warn("websocket hub not accepting clients", "username", claims.Username)
		_ = conn.Close()
		return
	}

	slog.Debug("websocket client connected", "username", claims.Username, "role", claims.Role)
	go client.writePump()
	go client.readPump()
}

func (h *Hub) dispatch(e event.Event) {
	message, err := json.Marshal(e)
	if err != nil {
		slog.Error("failed to marshal event", "error", err)
		return
	}

	for client := range h.clients {
		if e.Audience != "" && !(model.Broadcast{TargetAudience: e.Audience}).VisibleTo(client.role) {
			continue
		}

		select {
		case client.send <- message:
		default:
			slog.Warn("websocket client too slow, disconnecting", "username", client.username)
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	h.connected.Add(-1)
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}
