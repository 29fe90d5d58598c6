package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoggingSetsRequestID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	var seen string
	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))

	require.NotEmpty(t, seen)
	require.Equal(t, seen, rec.Header().Get(requestIDHeader))
	require.Contains(t, buf.String(), `"level":"WARN"`)
	require.Contains(t, buf.String(), `"error_code":"UNAUTHORIZED"`)
	require.Contains(t, buf.String(), seen)
}

func TestLoggingKeepsIncomingRequestID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := Logging(slog.New(slog.NewJSONHandler(&buf, nil)))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, "req-123", rec.Header().Get(requestIDHeader))
	require.Contains(t, buf.String(), `"level":"INFO"`)

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Len(t, rec.Header().Get(requestIDHeader), 36)
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	handler := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/results", nil))
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "INTERNAL_ERROR", decodeError(t, rec).Code)
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	handler := Timeout(10 * time.Millisecond)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/results", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "REQUEST_TIMEOUT")
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	SecurityHeaders(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func preflight(t *testing.T, handler http.Handler, origin string, method string, headers string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodOptions, "/auth/login", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", method)
	if headers != "" {
		req.Header.Set("Access-Control-Request-Headers", headers)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	handler := CORS(CORSOptions{
		Origins: []string{"http://localhost:3000"},
		Methods: []string{http.MethodGet, http.MethodPost},
	})(http.NotFoundHandler())

	for _, headers := range []string{"content-type", "authorization", "authorization,content-type", "x-request-id"} {
		rec := preflight(t, handler, "http://localhost:3000", http.MethodPost, headers)
		require.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"), "headers %q", headers)
	}

	rec := preflight(t, handler, "http://localhost:3000", http.MethodPost, "x-custom")
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = preflight(t, handler, "http://localhost:3000", http.MethodDelete, "")
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = preflight(t, handler, "http://evil.example", http.MethodPost, "")
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
