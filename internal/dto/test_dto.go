package dto

import "time"

// OptionDTO is the candidate-facing option. It deliberately has no correctness field.
type OptionDTO struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// QuestionDTO is a question as delivered to a candidate, options shuffled.
type QuestionDTO struct {
	ID      uint        `json:"id"`
	Text    string      `json:"text"`
	Options []OptionDTO `json:"options"`
}

// TestSessionDTO is returned when a test is started or re-fetched.
type TestSessionDTO struct {
	JobID       uint          `json:"job_id"`
	AttemptedAt time.Time     `json:"attempted_at"`
	ExpiresAt   time.Time     `json:"expires_at"`
	Questions   []QuestionDTO `json:"questions"`
}

// AttemptStateDTO describes an attempt after the expiry check has run.
type AttemptStateDTO struct {
	JobID       uint      `json:"job_id"`
	AttemptedAt time.Time `json:"attempted_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Submitted   bool      `json:"submitted"`
	Score       int       `json:"score"`
	TestStatus  string    `json:"test_status"`
}

// TestResultDTO is the outcome of a submit or of an expiry.
type TestResultDTO struct {
	Message        string `json:"message"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"total"`
	Expired        bool   `json:"expired"`
}

// QuestionAdminDTO is the company-facing view of a question, correctness included.
type QuestionAdminDTO struct {
	ID                  uint             `json:"id"`
	JobID               uint             `json:"job_id"`
	Text                string           `json:"text"`
	TestDurationMinutes int              `json:"test_duration_minutes"`
	Options             []OptionAdminDTO `json:"options"`
}

type OptionAdminDTO struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}
