package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"mnps-api/internal/model"
)

var broadcastRowColumns = []string{"id", "title", "message", "priority", "target_audience", "is_active", "created_at"}

func TestBroadcastRepositoryListNewestFirst(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	older := time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	mock.ExpectQuery(`FROM broadcasts\s+ORDER BY created_at DESC, id DESC`).
		WillReturnRows(pgxmock.NewRows(broadcastRowColumns).
			AddRow(int64(2), "Parent-Teacher Meeting", "Next Friday.", "high", "parents", true, newer).
			AddRow(int64(1), "Welcome", "Welcome back.", "normal", "all", true, older))

	broadcasts, err := NewBroadcastRepository(mock).List(context.Background(), model.BroadcastFilter{})
	require.NoError(t, err)
	require.Len(t, broadcasts, 2)
	require.Equal(t, "Parent-Teacher Meeting", broadcasts[0].Title)
	require.Equal(t, "all", broadcasts[1].TargetAudience)
}

func TestBroadcastRepositoryListFilters(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE target_audience IN ($1, 'all') AND is_active`)).
		WithArgs("parents").
		WillReturnRows(pgxmock.NewRows(broadcastRowColumns))

	broadcasts, err := NewBroadcastRepository(mock).List(context.Background(), model.BroadcastFilter{
		TargetAudience: "parents",
		ActiveOnly:     true,
	})
	require.NoError(t, err)
	require.Empty(t, broadcasts)
}

func TestBroadcastRepositoryCreate(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	createdAt := time.Now().UTC().Truncate(time.Second)
	mock.ExpectQuery(`INSERT INTO broadcasts`).
		WithArgs("Sports Day", "Sports day holds on Saturday.", "normal", "all", true).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), createdAt))

	created, err := NewBroadcastRepository(mock).Create(context.Background(), model.Broadcast{
		Title:          "Sports Day",
		Message:        "Sports day holds on Saturday.",
		Priority:       "normal",
		TargetAudience: "all",
		IsActive:       true,
	})
	require.NoError(t, err)
	require.Equal(t, int64(5), created.ID)
}
