package model

import "time"

// ExamAttempt is the single permitted, time-boxed attempt of a candidate at a job's test.
type ExamAttempt struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CandidateID uint      `json:"candidate_id" gorm:"not null;uniqueIndex:idx_exam_attempt_candidate_job"`
	JobID       uint      `json:"job_id" gorm:"not null;uniqueIndex:idx_exam_attempt_candidate_job"`
	AttemptedAt time.Time `json:"attempted_at" gorm:"not null"`
	ExpiresAt   time.Time `json:"expires_at" gorm:"not null;index"`
	Submitted   bool      `json:"submitted" gorm:"not null;default:false;index"`
	Score       int       `json:"score" gorm:"not null;default:0"`
	Expired     bool      `json:"expired" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsExpiredAt reports whether an unsubmitted attempt has run out of time at now.
func (a ExamAttempt) IsExpiredAt(now time.Time) bool {
	return !a.Submitted && now.After(a.ExpiresAt)
}
