package model

import "time"

type Interview struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	ApplicationID uint      `json:"application_id" gorm:"not null;index"`
	ScheduledAt   time.Time `json:"scheduled_at" gorm:"not null"`
	MeetingURL    string    `json:"meeting_url,omitempty" gorm:"type:text"`
	Notes         string    `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
}
