package repository

import (
	"context"
	"fmt"
	"strings"

	"mnps-api/internal/model"
)

const resultColumns = `id, student_id, student_name, class_name, session, term,
		        COALESCE(subjects, ''), total_score, average_score, grade,
		        COALESCE(position, ''), COALESCE(remarks, ''), created_at`

type ResultRepository struct {
	db DBTX
}

func NewResultRepository(db DBTX) *ResultRepository {
	return &ResultRepository{db: db}
}

func (r *ResultRepository) List(ctx context.Context, filter model.ResultFilter) ([]model.StudentResult, error) {
	where := make([]string, 0, 4)
	args := make([]any, 0, 4)

	for _, cond := range []struct {
		column string
		value  string
	}{
		{"student_id", filter.StudentID},
		{"class_name", filter.ClassName},
		{"session", filter.Session},
		{"term", filter.Term},
	} {
		value := strings.TrimSpace(cond.value)
		if value == "" {
			continue
		}
		args = append(args, value)
		where = append(where, fmt.Sprintf("%s = $%d", cond.column, len(args)))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	rows, err := r.db.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM student_results %s ORDER BY created_at DESC, id DESC`, resultColumns, whereClause),
		args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	results := make([]model.StudentResult, 0)
	for rows.Next() {
		var res model.StudentResult
		if err := rows.Scan(
			&res.ID, &res.StudentID, &res.StudentName, &res.ClassName, &res.Session, &res.Term,
			&res.Subjects, &res.TotalScore, &res.AverageScore, &res.Grade,
			&res.Position, &res.Remarks, &res.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

func (r *ResultRepository) Create(ctx context.Context, res model.StudentResult) (model.StudentResult, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO student_results
		 (student_id, student_name, class_name, session, term, subjects,
		  total_score, average_score, grade, position, remarks)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, NULLIF($10, ''), NULLIF($11, ''))
		 RETURNING id, created_at`,
		res.StudentID, res.StudentName, res.ClassName, res.Session, res.Term, res.Subjects,
		res.TotalScore, res.AverageScore, res.Grade, res.Position, res.Remarks).
		Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		return model.StudentResult{}, fmt.Errorf("create result: %w", err)
	}
	return res, nil
}

func (r *ResultRepository) CountByStudent(ctx context.Context, studentID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM student_results WHERE student_id = $1`, studentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return count, nil
}
