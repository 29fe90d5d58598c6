package model

import "time"

type StudentResult struct {
	ID           int64     `json:"id"`
	StudentID    string    `json:"student_id"`
	StudentName  string    `json:"student_name"`
	ClassName    string    `json:"class_name"`
	Session      string    `json:"session"`
	Term         string    `json:"term"`
	Subjects     string    `json:"subjects"`
	TotalScore   float64   `json:"total_score"`
	AverageScore float64   `json:"average_score"`
	Grade        string    `json:"grade"`
	Position     string    `json:"position,omitempty"`
	Remarks      string    `json:"remarks,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ResultFilter narrows a results listing; empty fields match everything.
type ResultFilter struct {
	StudentID string
	ClassName string
	Session   string
	Term      string
}
