package dto

import "time"

type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// ApplicationResponse is the candidate-facing view of an application.
type ApplicationResponse struct {
	ID                uint      `json:"id"`
	CandidateID       uint      `json:"candidate_id"`
	JobID             uint      `json:"job_id"`
	ResumeID          uint      `json:"resume_id"`
	Status            string    `json:"application_status"`
	TestStatus        string    `json:"test_status"`
	AcceptanceScore   *float64  `json:"acceptance_score,omitempty"`
	SimilarityScore   *float64  `json:"similarity_score,omitempty"`
	RankingScore      float64   `json:"ranking_score"`
	EstimatedSalary   int       `json:"estimated_salary"`
	TestScore         int       `json:"test_score"`
	RejectionFeedback string    `json:"rejection_feedback,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type CandidateSummaryDTO struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// ApplicantDTO is one row of a company's ranked applicant list.
type ApplicantDTO struct {
	ApplicationID    uint                `json:"application_id"`
	Candidate        CandidateSummaryDTO `json:"candidate"`
	Status           string              `json:"application_status"`
	TestStatus       string              `json:"test_status"`
	AcceptanceScore  *float64            `json:"acceptance_score,omitempty"`
	SimilarityScore  *float64            `json:"similarity_score,omitempty"`
	RankingScore     float64             `json:"ranking_score"`
	EstimatedSalary  int                 `json:"estimated_salary"`
	TestScore        int                 `json:"test_score"`
	CurrentInterview *InterviewResponse  `json:"current_interview,omitempty"`
	AppliedAt        time.Time           `json:"applied_at"`
}

type InterviewResponse struct {
	ID            uint      `json:"id"`
	ApplicationID uint      `json:"application_id"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	MeetingURL    string    `json:"meeting_url,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// DecisionResponse is returned by accept and reject.
type DecisionResponse struct {
	ApplicationID uint      `json:"application_id"`
	CandidateID   uint      `json:"candidate_id"`
	JobID         uint      `json:"job_id"`
	JobTitle      string    `json:"job_title"`
	Status        string    `json:"application_status"`
	Feedback      string    `json:"feedback,omitempty"`
	DecidedAt     time.Time `json:"decided_at"`
	Notified      bool      `json:"notified"`
}
