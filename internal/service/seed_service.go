package service

import (
	"context"
	"fmt"
	"log/slog"

	"mnps-api/internal/auth"
	"mnps-api/internal/model"
)

type seedUserStore interface {
	ExistsByUsernameOrEmail(ctx context.Context, username string, email string) (bool, error)
	Create(ctx context.Context, user model.User) (model.User, error)
}

type seedResultStore interface {
	CountByStudent(ctx context.Context, studentID string) (int, error)
	Create(ctx context.Context, result model.StudentResult) (model.StudentResult, error)
}

type seedBroadcastStore interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, broadcast model.Broadcast) (model.Broadcast, error)
}

type demoUser struct {
	user     model.User
	password string
}

// SeedReport counts the rows a Seed run inserted.
type SeedReport struct {
	Users      int `json:"users"`
	Results    int `json:"results"`
	Broadcasts int `json:"broadcasts"`
}

// Seeder loads the demo accounts, results and broadcasts. Running it again
// only inserts what is missing.
type Seeder struct {
	users      seedUserStore
	results    seedResultStore
	broadcasts seedBroadcastStore
	hasher     auth.PasswordHasher
}

func NewSeeder(users seedUserStore, results seedResultStore, broadcasts seedBroadcastStore, hasher auth.PasswordHasher) *Seeder {
	return &Seeder{users: users, results: results, broadcasts: broadcasts, hasher: hasher}
}

func (s *Seeder) Seed(ctx context.Context) (SeedReport, error) {
	var report SeedReport

	for _, demo := range demoUsers() {
		exists, err := s.users.ExistsByUsernameOrEmail(ctx, demo.user.Username, demo.user.Email)
		if err != nil {
			return report, fmt.Errorf("seed user %s: %w", demo.user.Username, err)
		}
		if exists {
			continue
		}

		hash, err := s.hasher.Hash(demo.password)
		if err != nil {
			return report, err
		}
		demo.user.PasswordHash = hash

		if _, err := s.users.Create(ctx, demo.user); err != nil {
			return report, fmt.Errorf("seed user %s: %w", demo.user.Username, err)
		}
		slog.Info("seeded user", "username", demo.user.Username, "role", demo.user.Role)
		report.Users++
	}

	count, err := s.results.CountByStudent(ctx, "student001")
	if err != nil {
		return report, fmt.Errorf("seed results: %w", err)
	}
	if count == 0 {
		for _, result := range demoResults() {
			if _, err := s.results.Create(ctx, result); err != nil {
				return report, fmt.Errorf("seed results: %w", err)
			}
			report.Results++
		}
	}

	count, err = s.broadcasts.Count(ctx)
	if err != nil {
		return report, fmt.Errorf("seed broadcasts: %w", err)
	}
	if count == 0 {
		for _, broadcast := range demoBroadcasts() {
			if _, err := s.broadcasts.Create(ctx, broadcast); err != nil {
				return report, fmt.Errorf("seed broadcasts: %w", err)
			}
			report.Broadcasts++
		}
	}

	return report, nil
}

func demoUsers() []demoUser {
	return []demoUser{
		{
			user:     model.User{Username: "admin", Email: "admin@mayowaschool.edu.ng", Role: model.RoleAdmin, FullName: "System Administrator", IsActive: true},
			password: "admin123",
		},
		{
			user:     model.User{Username: "student001", Email: "student001@mayowaschool.edu.ng", Role: model.RoleStudent, FullName: "John Doe", IsActive: true},
			password: "student123",
		},
		{
			user:     model.User{Username: "teacher001", Email: "teacher001@mayowaschool.edu.ng", Role: model.RoleTeacher, FullName: "Jane Smith", IsActive: true},
			password: "teacher123",
		},
	}
}

func demoResults() []model.StudentResult {
	return []model.StudentResult{
		{
			StudentID:    "student001",
			StudentName:  "John Doe",
			ClassName:    "Primary 5",
			Session:      "2024/2025",
			Term:         "1st Term",
			Subjects:     `{"Mathematics": 85, "English": 78, "Science": 92, "Social Studies": 80, "Art": 88}`,
			TotalScore:   423,
			AverageScore: 84.6,
			Grade:        "A",
			Position:     "3rd",
			Remarks:      "Excellent performance. Keep up the good work!",
		},
		{
			StudentID:    "student001",
			StudentName:  "John Doe",
			ClassName:    "Primary 5",
			Session:      "2024/2025",
			Term:         "2nd Term",
			Subjects:     `{"Mathematics": 88, "English": 82, "Science": 90, "Social Studies": 85, "Art": 90}`,
			TotalScore:   435,
			AverageScore: 87,
			Grade:        "A",
			Position:     "2nd",
			Remarks:      "Outstanding improvement! Well done!",
		},
	}
}

func demoBroadcasts() []model.Broadcast {
	return []model.Broadcast{
		{
			Title:          "Welcome to New Academic Session",
			Message:        "Welcome to the 2024/2025 academic session. We are excited to have you back and look forward to a successful year ahead.",
			Priority:       model.PriorityNormal,
			TargetAudience: model.AudienceAll,
			IsActive:       true,
		},
		{
			Title:          "Parent-Teacher Meeting",
			Message:        "Parent-Teacher meeting is scheduled for next Friday. Please ensure you attend to discuss your child's progress.",
			Priority:       model.PriorityHigh,
			TargetAudience: model.AudienceParents,
			IsActive:       true,
		},
	}
}
