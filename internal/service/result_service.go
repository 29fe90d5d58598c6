package service

import (
	"context"
	"encoding/json"
	"strings"

	"mnps-api/internal/model"
	"mnps-api/pkg/apierror"
)

type resultStore interface {
	List(ctx context.Context, filter model.ResultFilter) ([]model.StudentResult, error)
	Create(ctx context.Context, result model.StudentResult) (model.StudentResult, error)
}

type ResultService struct {
	results resultStore
}

func NewResultService(results resultStore) *ResultService {
	return &ResultService{results: results}
}

// List returns results matching filter. Students only ever see their own
// results whatever student_id they ask for.
func (s *ResultService) List(ctx context.Context, claims *model.AuthClaims, filter model.ResultFilter) ([]model.StudentResult, error) {
	if claims == nil {
		return nil, model.ErrUnauthorized
	}

	if claims.Role == model.RoleStudent {
		filter.StudentID = claims.Username
	}

	return s.results.List(ctx, filter)
}

func (s *ResultService) Create(ctx context.Context, req model.CreateResultRequest) (model.StudentResult, error) {
	result := model.StudentResult{
		StudentID:    strings.TrimSpace(req.StudentID),
		StudentName:  strings.TrimSpace(req.StudentName),
		ClassName:    strings.TrimSpace(req.ClassName),
		Session:      strings.TrimSpace(req.Session),
		Term:         strings.TrimSpace(req.Term),
		Subjects:     strings.TrimSpace(req.Subjects),
		TotalScore:   req.TotalScore,
		AverageScore: req.AverageScore,
		Grade:        strings.TrimSpace(req.Grade),
		Position:     strings.TrimSpace(req.Position),
		Remarks:      strings.TrimSpace(req.Remarks),
	}

	if missing := missingFields(map[string]string{
		"student_id":   result.StudentID,
		"student_name": result.StudentName,
		"class_name":   result.ClassName,
		"session":      result.Session,
		"term":         result.Term,
		"subjects":     result.Subjects,
		"grade":        result.Grade,
	}); missing != "" {
		return model.StudentResult{}, apierror.BadRequest("missing required fields", missing)
	}

	var subjects map[string]any
	if err := json.Unmarshal([]byte(result.Subjects), &subjects); err != nil {
		return model.StudentResult{}, apierror.BadRequest("subjects must be a JSON object", err.Error())
	}

	if result.TotalScore < 0 {
		return model.StudentResult{}, apierror.BadRequest("total_score cannot be negative", "")
	}
	if result.AverageScore < 0 || result.AverageScore > 100 {
		return model.StudentResult{}, apierror.BadRequest("average_score must be between 0 and 100", "")
	}

	return s.results.Create(ctx, result)
}
