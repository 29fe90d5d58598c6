package service

import (
	"context"
	"slices"
	"strings"

	"mnps-api/internal/event"
	"mnps-api/internal/model"
	"mnps-api/pkg/apierror"
)

type broadcastStore interface {
	List(ctx context.Context, filter model.BroadcastFilter) ([]model.Broadcast, error)
	Create(ctx context.Context, broadcast model.Broadcast) (model.Broadcast, error)
}

type eventPublisher interface {
	Publish(e event.Event)
}

type BroadcastService struct {
	broadcasts broadcastStore
	publisher  eventPublisher
}

// NewBroadcastService creates the service. publisher may be nil, in which
// case new broadcasts are only stored.
func NewBroadcastService(broadcasts broadcastStore, publisher eventPublisher) *BroadcastService {
	return &BroadcastService{broadcasts: broadcasts, publisher: publisher}
}

func (s *BroadcastService) List(ctx context.Context, filter model.BroadcastFilter) ([]model.Broadcast, error) {
	filter.TargetAudience = strings.ToLower(strings.TrimSpace(filter.TargetAudience))
	if filter.TargetAudience != "" && !slices.Contains(model.ValidAudiences, filter.TargetAudience) {
		return nil, apierror.BadRequest("invalid target_audience", filter.TargetAudience)
	}

	return s.broadcasts.List(ctx, filter)
}

func (s *BroadcastService) Create(ctx context.Context, req model.CreateBroadcastRequest) (model.Broadcast, error) {
	broadcast := model.Broadcast{
		Title:          strings.TrimSpace(req.Title),
		Message:        strings.TrimSpace(req.Message),
		Priority:       strings.ToLower(strings.TrimSpace(req.Priority)),
		TargetAudience: strings.ToLower(strings.TrimSpace(req.TargetAudience)),
		IsActive:       true,
	}

	if missing := missingFields(map[string]string{
		"title":   broadcast.Title,
		"message": broadcast.Message,
	}); missing != "" {
		return model.Broadcast{}, apierror.BadRequest("missing required fields", missing)
	}

	if broadcast.Priority == "" {
		broadcast.Priority = model.PriorityNormal
	}
	if !slices.Contains(model.ValidPriorities, broadcast.Priority) {
		return model.Broadcast{}, apierror.BadRequest("invalid priority", broadcast.Priority)
	}

	if broadcast.TargetAudience == "" {
		broadcast.TargetAudience = model.AudienceAll
	}
	if !slices.Contains(model.ValidAudiences, broadcast.TargetAudience) {
		return model.Broadcast{}, apierror.BadRequest("invalid target_audience", broadcast.TargetAudience)
	}

	created, err := s.broadcasts.Create(ctx, broadcast)
	if err != nil {
		return model.Broadcast{}, err
	}

	if s.publisher != nil {
		s.publisher.Publish(event.Event{
			Type:     event.TypeBroadcastPublished,
			Payload:  created,
			Audience: created.TargetAudience,
		})
	}

	return created, nil
}
