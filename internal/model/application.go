package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Application struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CandidateID uint      `json:"candidate_id" gorm:"not null;index"`
	Candidate   Candidate `json:"candidate,omitempty" gorm:"foreignKey:CandidateID"`
	JobID       uint      `json:"job_id" gorm:"not null;index"`
	Job         Job       `json:"job,omitempty" gorm:"foreignKey:JobID"`
	ResumeID    uint      `json:"resume_id" gorm:"not null"`
	Resume      Resume    `json:"resume,omitempty" gorm:"foreignKey:ResumeID"`

	Status     ApplicationStatus `json:"application_status" gorm:"type:varchar(20);not null;default:'pending'"`
	TestStatus TestStatus        `json:"test_status" gorm:"type:varchar(20);not null;default:'not_started'"`

	AcceptanceScore   *float64 `json:"acceptance_score,omitempty"`
	SimilarityScore   *float64 `json:"similarity_score,omitempty"`
	RankingScore      float64  `json:"ranking_score" gorm:"not null;default:0;index"`
	EstimatedSalary   int      `json:"estimated_salary"`
	TestScore         int      `json:"test_score" gorm:"not null;default:0"`
	RejectionFeedback string   `json:"rejection_feedback,omitempty" gorm:"type:text"`

	// ActiveSlot is "<candidate>:<job>" while the application is active and NULL
	// otherwise; its unique index forbids two active applications for one pair.
	ActiveSlot *string `json:"-" gorm:"uniqueIndex"`

	Interviews  []Interview  `json:"interviews,omitempty" gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE;"`
	TestAnswers []TestAnswer `json:"-" gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE;"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func ActiveSlotKey(candidateID, jobID uint) string {
	return fmt.Sprintf("%d:%d", candidateID, jobID)
}

// BeforeSave keeps ActiveSlot in step with Status on every create and save.
func (a *Application) BeforeSave(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = ApplicationPending
	}
	if a.TestStatus == "" {
		a.TestStatus = TestNotStarted
	}
	if a.Status.IsActive() {
		slot := ActiveSlotKey(a.CandidateID, a.JobID)
		a.ActiveSlot = &slot
	} else {
		a.ActiveSlot = nil
	}
	return nil
}

// Transition applies a status event to the application in memory.
func (a *Application) Transition(event ApplicationEvent) error {
	next, err := a.Status.Next(event)
	if err != nil {
		return err
	}
	a.Status = next
	return nil
}

func (a *Application) TransitionTest(event TestEvent) error {
	next, err := a.TestStatus.Next(event)
	if err != nil {
		return err
	}
	a.TestStatus = next
	return nil
}
