package model

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
}

type CreateResultRequest struct {
	StudentID    string  `json:"student_id"`
	StudentName  string  `json:"student_name"`
	ClassName    string  `json:"class_name"`
	Session      string  `json:"session"`
	Term         string  `json:"term"`
	Subjects     string  `json:"subjects"`
	TotalScore   float64 `json:"total_score"`
	AverageScore float64 `json:"average_score"`
	Grade        string  `json:"grade"`
	Position     string  `json:"position"`
	Remarks      string  `json:"remarks"`
}

type CreateBroadcastRequest struct {
	Title          string `json:"title"`
	Message        string `json:"message"`
	Priority       string `json:"priority"`
	TargetAudience string `json:"target_audience"`
}
