package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"mnps-api/internal/model"
	"mnps-api/pkg/apierror"
)

type broadcastService interface {
	List(ctx context.Context, filter model.BroadcastFilter) ([]model.Broadcast, error)
	Create(ctx context.Context, req model.CreateBroadcastRequest) (model.Broadcast, error)
}

type BroadcastsHandler struct {
	service broadcastService
}

func NewBroadcastsHandler(service broadcastService) *BroadcastsHandler {
	return &BroadcastsHandler{service: service}
}

func (h *BroadcastsHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := model.BroadcastFilter{TargetAudience: query.Get("target_audience")}

	if raw := strings.TrimSpace(query.Get("active")); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, apierror.BadRequest("active must be true or false", raw))
			return
		}
		filter.ActiveOnly = active
	}

	broadcasts, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.ListData[model.Broadcast]{Items: broadcasts, Total: len(broadcasts)})
}

func (h *BroadcastsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateBroadcastRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	broadcast, err := h.service.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, broadcast)
}
