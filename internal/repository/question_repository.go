package repository

import (
	"context"

	"github.com/irshad/hiring/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(ctx context.Context, question *model.Question) error
	FindByJobID(ctx context.Context, jobID uint) ([]model.Question, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

// Create inserts the question together with its options.
func (r *questionRepository) Create(ctx context.Context, question *model.Question) error {
	err := r.db.WithContext(ctx).Create(question).Error
	return translate(err, "question not found", "question already exists", "failed to create question")
}

func (r *questionRepository) FindByJobID(ctx context.Context, jobID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.id ASC")
		}).
		Where("job_id = ?", jobID).
		Order("id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, translate(err, "questions not found", "question conflict", "failed to load questions")
	}
	return questions, nil
}
