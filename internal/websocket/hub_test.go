package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"mnps-api/internal/event"
	"mnps-api/internal/middleware"
	"mnps-api/internal/model"
)

func startHub(t *testing.T) (*Hub, *event.InMemoryBus, *httptest.Server) {
	t.Helper()

	bus := event.NewBus()
	hub := NewHub(bus, []string{"*"})

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := r.URL.Query().Get("role")
		ctx := middleware.WithClaims(r.Context(), &model.AuthClaims{Username: role + "-user", Role: role})
		hub.ServeWS(w, r.WithContext(ctx))
	}))
	t.Cleanup(server.Close)

	return hub, bus, server
}

func dial(t *testing.T, server *httptest.Server, role string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/?role=" + role
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHubDeliversByAudience(t *testing.T) {
	t.Parallel()

	hub, bus, server := startHub(t)
	parent := dial(t, server, model.RoleParent)
	student := dial(t, server, model.RoleStudent)

	require.Eventually(t, func() bool { return hub.Connected() == 2 }, 2*time.Second, 10*time.Millisecond)

	bus.Publish(event.Event{
		Type:     event.TypeBroadcastPublished,
		Payload:  model.Broadcast{Title: "Parent-Teacher Meeting", TargetAudience: model.AudienceParents},
		Audience: model.AudienceParents,
	})
	bus.Publish(event.Event{
		Type:     event.TypeBroadcastPublished,
		Payload:  model.Broadcast{Title: "Sports Day", TargetAudience: model.AudienceAll},
		Audience: model.AudienceAll,
	})

	readTitle := func(conn *websocket.Conn) string {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, message, err := conn.ReadMessage()
		require.NoError(t, err)

		var e struct {
			Type    event.Type      `json:"type"`
			Payload model.Broadcast `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(message, &e))
		require.Equal(t, event.TypeBroadcastPublished, e.Type)
		return e.Payload.Title
	}

	require.Equal(t, "Parent-Teacher Meeting", readTitle(parent))
	require.Equal(t, "Sports Day", readTitle(parent))
	require.Equal(t, "Sports Day", readTitle(student))
}

func TestHubForgetsClosedClients(t *testing.T) {
	t.Parallel()

	hub, _, server := startHub(t)
	conn := dial(t, server, model.RoleTeacher)

	require.Eventually(t, func() bool { return hub.Connected() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Connected() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestServeWSClosesConnectionWhenHubIsNotRunning(t *testing.T) {
	t.Parallel()

	hub := NewHub(event.NewBus(), []string{"*"})
	hub.registerWait = 50 * time.Millisecond

	returned := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(returned)
		ctx := middleware.WithClaims(r.Context(), &model.AuthClaims{Username: "student001", Role: model.RoleStudent})
		hub.ServeWS(w, r.WithContext(ctx))
	}))
	t.Cleanup(server.Close)

	conn := dial(t, server, model.RoleStudent)

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("ServeWS did not return")
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	require.Zero(t, hub.Connected())
}

func TestServeWSRequiresClaims(t *testing.T) {
	t.Parallel()

	hub := NewHub(event.NewBus(), nil)
	rec := httptest.NewRecorder()
	hub.ServeWS(rec, httptest.NewRequest(http.MethodGet, "/broadcasts/stream", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOriginChecker(t *testing.T) {
	t.Parallel()

	check := originChecker([]string{"http://localhost:3000"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.True(t, check(req))

	req.Header.Set("Origin", "http://localhost:3000")
	require.True(t, check(req))

	req.Header.Set("Origin", "http://evil.example")
	require.False(t, check(req))
}
