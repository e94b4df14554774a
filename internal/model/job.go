package model

import (
	"time"

	"gorm.io/datatypes"
)

type Job struct {
	ID                 uint                        `gorm:"primarykey" json:"id"`
	CompanyID          uint                        `json:"company_id" gorm:"not null;index"`
	Company            Company                     `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	Title              string                      `json:"title" gorm:"type:varchar(200);not null"`
	Description        string                      `json:"description" gorm:"type:text"`
	RequiredSkills     datatypes.JSONSlice[string] `json:"required_skills"`
	RequiredExperience float64                     `json:"required_experience"`
	RequiredEducation  datatypes.JSONSlice[string] `json:"required_education"`
	Location           string                      `json:"location,omitempty"`
	Questions          []Question                  `json:"questions,omitempty" gorm:"foreignKey:JobID"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
}
