package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"mnps-api/internal/event"
	"mnps-api/internal/model"
	"mnps-api/pkg/apierror"
)

func TestBroadcastServiceCreateDefaults(t *testing.T) {
	t.Parallel()

	service := NewBroadcastService(&fakeBroadcastStore{}, nil)

	created, err := service.Create(context.Background(), model.CreateBroadcastRequest{
		Title:   "Sports Day",
		Message: "Sports day holds on Saturday.",
	})
	require.NoError(t, err)
	require.Equal(t, model.PriorityNormal, created.Priority)
	require.Equal(t, model.AudienceAll, created.TargetAudience)
	require.True(t, created.IsActive)
}

func TestBroadcastServiceCreateValidates(t *testing.T) {
	t.Parallel()

	service := NewBroadcastService(&fakeBroadcastStore{}, nil)

	cases := map[string]model.CreateBroadcastRequest{
		"missing title":    {Message: "m"},
		"missing message":  {Title: "t"},
		"unknown priority": {Title: "t", Message: "m", Priority: "critical"},
		"unknown audience": {Title: "t", Message: "m", TargetAudience: "alumni"},
	}

	for name, req := range cases {
		_, err := service.Create(context.Background(), req)
		require.Equal(t, 400, apierror.StatusOf(err), name)
	}

	created, err := service.Create(context.Background(), model.CreateBroadcastRequest{Title: "t", Message: "m", Priority: "URGENT", TargetAudience: "Teachers"})
	require.NoError(t, err)
	require.Equal(t, model.PriorityUrgent, created.Priority)
	require.Equal(t, model.AudienceTeachers, created.TargetAudience)
}

func TestBroadcastServiceListNormalizesAudience(t *testing.T) {
	t.Parallel()

	store := &fakeBroadcastStore{}
	service := NewBroadcastService(store, nil)

	_, err := service.List(context.Background(), model.BroadcastFilter{TargetAudience: " Parents ", ActiveOnly: true})
	require.NoError(t, err)
	require.Equal(t, model.AudienceParents, store.lastFilter.TargetAudience)
	require.True(t, store.lastFilter.ActiveOnly)

	_, err = service.List(context.Background(), model.BroadcastFilter{TargetAudience: "alumni"})
	require.Equal(t, 400, apierror.StatusOf(err))
}

func TestBroadcastServicePublishesCreatedBroadcasts(t *testing.T) {
	t.Parallel()

	bus := event.NewBus()
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	service := NewBroadcastService(&fakeBroadcastStore{}, bus)
	created, err := service.Create(context.Background(), model.CreateBroadcastRequest{
		Title:          "Parent-Teacher Meeting",
		Message:        "Next Friday.",
		TargetAudience: model.AudienceParents,
	})
	require.NoError(t, err)

	e := <-events
	require.Equal(t, event.TypeBroadcastPublished, e.Type)
	require.Equal(t, model.AudienceParents, e.Audience)
	require.Equal(t, created, e.Payload)
}
