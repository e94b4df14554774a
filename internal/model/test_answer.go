package model

import "time"

// TestAnswer is the audit record of one graded answer. Rows are written once and never regraded.
type TestAnswer struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	ApplicationID    uint      `json:"application_id" gorm:"not null;uniqueIndex:idx_test_answer_application_question"`
	QuestionID       uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_test_answer_application_question"`
	SelectedOptionID uint      `json:"selected_option_id" gorm:"not null"`
	IsCorrect        bool      `json:"is_correct" gorm:"not null;default:false"`
	CreatedAt        time.Time `json:"created_at"`
}
