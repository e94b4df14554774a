package repository

import (
	"context"

	"github.com/irshad/hiring/internal/model"
	"gorm.io/gorm"
)

type JobRepository interface {
	WithTx(tx *gorm.DB) JobRepository
	FindByID(ctx context.Context, id uint) (*model.Job, error)
	FindByIDWithQuestions(ctx context.Context, id uint) (*model.Job, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) WithTx(tx *gorm.DB) JobRepository {
	return &jobRepository{db: tx}
}

func (r *jobRepository) FindByID(ctx context.Context, id uint) (*model.Job, error) {
	var job model.Job
	err := r.db.WithContext(ctx).First(&job, id).Error
	if err != nil {
		return nil, translate(err, "job not found", "job conflict", "failed to load job")
	}
	return &job, nil
}

// FindByIDWithQuestions loads the job with its question bank in a stable order.
func (r *jobRepository) FindByIDWithQuestions(ctx context.Context, id uint) (*model.Job, error) {
	var job model.Job
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.id ASC")
		}).
		First(&job, id).Error
	if err != nil {
		return nil, translate(err, "job not found", "job conflict", "failed to load job questions")
	}
	return &job, nil
}
