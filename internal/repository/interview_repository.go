package repository

import (
	"context"

	"github.com/irshad/hiring/internal/apperror"
	"github.com/irshad/hiring/internal/model"
	"gorm.io/gorm"
)

type InterviewRepository interface {
	Create(ctx context.Context, interview *model.Interview) error
	// ListByApplication returns interviews most recent first.
	ListByApplication(ctx context.Context, applicationID uint) ([]model.Interview, error)
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) Create(ctx context.Context, interview *model.Interview) error {
	err := r.db.WithContext(ctx).Create(interview).Error
	return translate(err, "interview not found", "interview already exists", "failed to create interview")
}

func (r *interviewRepository) ListByApplication(ctx context.Context, applicationID uint) ([]model.Interview, error) {
	var interviews []model.Interview
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at DESC").Order("id DESC").
		Find(&interviews).Error
	if err != nil {
		return nil, apperror.Internal("failed to list interviews", err)
	}
	return interviews, nil
}
