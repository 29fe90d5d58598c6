package model

import "time"

const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"

	AudienceAll      = "all"
	AudienceStudents = "students"
	AudienceParents  = "parents"
	AudienceTeachers = "teachers"
)

var (
	ValidPriorities = []string{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}
	ValidAudiences  = []string{AudienceAll, AudienceStudents, AudienceParents, AudienceTeachers}
)

type Broadcast struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Priority       string    `json:"priority"`
	TargetAudience string    `json:"target_audience"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

type BroadcastFilter struct {
	TargetAudience string
	ActiveOnly     bool
}

// VisibleTo reports whether a user with role should receive b. Admins see
// every broadcast; everyone else sees "all" plus their own audience.
func (b Broadcast) VisibleTo(role string) bool {
	if b.TargetAudience == AudienceAll || role == RoleAdmin {
		return true
	}

	switch role {
	case RoleStudent:
		return b.TargetAudience == AudienceStudents
	case RoleParent:
		return b.TargetAudience == AudienceParents
	case RoleTeacher:
		return b.TargetAudience == AudienceTeachers
	default:
		return false
	}
}
