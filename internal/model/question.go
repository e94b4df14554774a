package model

import "time"

// Question belongs to a job's test bank. TestDurationMinutes of the job's
// first question configures the whole test.
type Question struct {
	ID                  uint      `gorm:"primarykey" json:"id"`
	JobID               uint      `json:"job_id" gorm:"not null;index"`
	Text                string    `json:"text" gorm:"type:text;not null"`
	TestDurationMinutes int       `json:"test_duration_minutes" gorm:"not null;default:0"`
	Options             []Option  `json:"options,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE;"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Option.IsCorrect must never be copied into a candidate-facing payload.
type Option struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"not null"`
	IsCorrect  bool   `json:"is_correct" gorm:"not null;default:false"`
}

// FindOption returns the option with the given id, if it belongs to q.
func (q Question) FindOption(optionID uint) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == optionID {
			return o, true
		}
	}
	return Option{}, false
}
