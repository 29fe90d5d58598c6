package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const (
	serviceName    = "MNPS v2 - School Management API"
	schoolName     = "Mayowa Nursery & Primary School"
	schoolAddress  = "Oda Road, Akure, Ondo State, Nigeria"
	serviceVersion = "2.0.0"
)

type healthChecker interface {
	Health(ctx context.Context) error
}

type SystemHandler struct {
	db  healthChecker
	now func() time.Time
}

func NewSystemHandler(db healthChecker) *SystemHandler {
	return &SystemHandler{db: db, now: time.Now}
}

func (h *SystemHandler) Root(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{
		"message":   serviceName,
		"school":    schoolName,
		"address":   schoolAddress,
		"version":   serviceVersion,
		"status":    "healthy",
		"timestamp": unixSeconds(h.now()),
	})
}

func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	database := "ok"
	code := http.StatusOK

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Health(ctx); err != nil {
			slog.Warn("database health check failed", "error", err)
			status = "degraded"
			database = "unavailable"
			code = http.StatusServiceUnavailable
		}
	}

	writeSuccess(w, code, map[string]any{
		"status":    status,
		"database":  database,
		"version":   serviceVersion,
		"timestamp": unixSeconds(h.now()),
	})
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
