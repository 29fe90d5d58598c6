package repository

import (
	"context"
	"fmt"
	"strings"

	"mnps-api/internal/model"
)

type BroadcastRepository struct {
	db DBTX
}

func NewBroadcastRepository(db DBTX) *BroadcastRepository {
	return &BroadcastRepository{db: db}
}

// List returns broadcasts newest first. An audience filter also matches
// broadcasts addressed to everyone.
func (r *BroadcastRepository) List(ctx context.Context, filter model.BroadcastFilter) ([]model.Broadcast, error) {
	where := make([]string, 0, 2)
	args := make([]any, 0, 1)

	if audience := strings.TrimSpace(filter.TargetAudience); audience != "" {
		args = append(args, audience)
		where = append(where, fmt.Sprintf("target_audience IN ($%d, 'all')", len(args)))
	}
	if filter.ActiveOnly {
		where = append(where, "is_active")
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	rows, err := r.db.Query(ctx,
		fmt.Sprintf(`SELECT id, title, message, priority, target_audience, is_active, created_at
		 FROM broadcasts %s
		 ORDER BY created_at DESC, id DESC`, whereClause),
		args...)
	if err != nil {
		return nil, fmt.Errorf("list broadcasts: %w", err)
	}
	defer rows.Close()

	broadcasts := make([]model.Broadcast, 0)
	for rows.Next() {
		var b model.Broadcast
		if err := rows.Scan(&b.ID, &b.Title, &b.Message, &b.Priority, &b.TargetAudience, &b.IsActive, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan broadcast: %w", err)
		}
		broadcasts = append(broadcasts, b)
	}
	return broadcasts, rows.Err()
}

func (r *BroadcastRepository) Create(ctx context.Context, b model.Broadcast) (model.Broadcast, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO broadcasts (title, message, priority, target_audience, is_active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		b.Title, b.Message, b.Priority, b.TargetAudience, b.IsActive).
		Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return model.Broadcast{}, fmt.Errorf("create broadcast: %w", err)
	}
	return b, nil
}

func (r *BroadcastRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM broadcasts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count broadcasts: %w", err)
	}
	return count, nil
}
