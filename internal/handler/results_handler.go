package handler

import (
	"context"
	"net/http"
	"strings"

	"mnps-api/internal/middleware"
	"mnps-api/internal/model"
	"mnps-api/pkg/apierror"
)

type resultService interface {
	List(ctx context.Context, claims *model.AuthClaims, filter model.ResultFilter) ([]model.StudentResult, error)
	Create(ctx context.Context, req model.CreateResultRequest) (model.StudentResult, error)
}

type ResultsHandler struct {
	service resultService
}

func NewResultsHandler(service resultService) *ResultsHandler {
	return &ResultsHandler{service: service}
}

func (h *ResultsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	query := r.URL.Query()
	filter := model.ResultFilter{
		StudentID: strings.TrimSpace(query.Get("student_id")),
		ClassName: strings.TrimSpace(query.Get("class_name")),
		Session:   strings.TrimSpace(query.Get("session")),
		Term:      strings.TrimSpace(query.Get("term")),
	}

	results, err := h.service.List(r.Context(), claims, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.ListData[model.StudentResult]{Items: results, Total: len(results)})
}

func (h *ResultsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateResultRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, result)
}
