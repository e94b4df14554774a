package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type Candidate struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	FirstName string    `json:"first_name" gorm:"not null"`
	LastName  string    `json:"last_name" gorm:"not null"`
	Email     string    `json:"email" gorm:"not null;uniqueIndex"`
	Resumes   []Resume  `json:"resumes,omitempty" gorm:"foreignKey:CandidateID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c Candidate) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Resume holds the attributes extracted from an uploaded CV. Applications keep a
// reference to the resume that was current when they were submitted.
type Resume struct {
	ID              uint                        `gorm:"primarykey" json:"id"`
	CandidateID     uint                        `json:"candidate_id" gorm:"not null;index"`
	FilePath        string                      `json:"file_path"`
	Skills          datatypes.JSONSlice[string] `json:"skills"`
	Education       datatypes.JSONSlice[string] `json:"education"`
	ExperienceYears float64                     `json:"experience_years"`
	CreatedAt       time.Time                   `json:"created_at"`
}
