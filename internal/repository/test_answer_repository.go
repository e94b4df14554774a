package repository

import (
	"context"

	"github.com/irshad/hiring/internal/apperror"
	"github.com/irshad/hiring/internal/model"
	"gorm.io/gorm"
)

type TestAnswerRepository interface {
	WithTx(tx *gorm.DB) TestAnswerRepository
	CreateBatch(ctx context.Context, answers []model.TestAnswer) error
	ListByApplication(ctx context.Context, applicationID uint) ([]model.TestAnswer, error)
}

type testAnswerRepository struct {
	db *gorm.DB
}

func NewTestAnswerRepository(db *gorm.DB) TestAnswerRepository {
	return &testAnswerRepository{db: db}
}

func (r *testAnswerRepository) WithTx(tx *gorm.DB) TestAnswerRepository {
	return &testAnswerRepository{db: tx}
}

func (r *testAnswerRepository) CreateBatch(ctx context.Context, answers []model.TestAnswer) error {
	if len(answers) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Create(&answers).Error
	return translate(err, "answer not found", "answers already recorded", "failed to save test answers")
}

func (r *testAnswerRepository) ListByApplication(ctx context.Context, applicationID uint) ([]model.TestAnswer, error) {
	var answers []model.TestAnswer
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("id ASC").
		Find(&answers).Error
	if err != nil {
		return nil, apperror.Internal("failed to load test answers", err)
	}
	return answers, nil
}
