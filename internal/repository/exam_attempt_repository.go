package repository

import (
	"context"
	"time"

	"github.com/irshad/hiring/internal/apperror"
	"github.com/irshad/hiring/internal/model"
	"gorm.io/gorm"
)

// ExamAttemptRepository is keyed by (candidate, job) so one candidate can never
// reach another candidate's attempt.
type ExamAttemptRepository interface {
	WithTx(tx *gorm.DB) ExamAttemptRepository
	Create(ctx context.Context, attempt *model.ExamAttempt) error
	Find(ctx context.Context, candidateID, jobID uint) (*model.ExamAttempt, error)
	// Finalize marks an open attempt submitted with score. It reports false when
	// the attempt was already finalized by someone else.
	Finalize(ctx context.Context, attempt *model.ExamAttempt, score int, expired bool) (bool, error)
	ListExpiredOpen(ctx context.Context, now time.Time, limit int) ([]model.ExamAttempt, error)
}

type examAttemptRepository struct {
	db *gorm.DB
}

func NewExamAttemptRepository(db *gorm.DB) ExamAttemptRepository {
	return &examAttemptRepository{db: db}
}

func (r *examAttemptRepository) WithTx(tx *gorm.DB) ExamAttemptRepository {
	return &examAttemptRepository{db: tx}
}

func (r *examAttemptRepository) Create(ctx context.Context, attempt *model.ExamAttempt) error {
	err := r.db.WithContext(ctx).Create(attempt).Error
	return translate(err, "attempt not found", "test already started", "failed to create exam attempt")
}

func (r *examAttemptRepository) Find(ctx context.Context, candidateID, jobID uint) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	err := r.db.WithContext(ctx).
		Where("candidate_id = ? AND job_id = ?", candidateID, jobID).
		First(&attempt).Error
	if err != nil {
		return nil, translate(err, "test not started", "attempt conflict", "failed to load exam attempt")
	}
	return &attempt, nil
}

func (r *examAttemptRepository) Finalize(ctx context.Context, attempt *model.ExamAttempt, score int, expired bool) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.ExamAttempt{}).
		Where("id = ? AND submitted = ?", attempt.ID, false).
		Updates(map[string]any{"submitted": true, "score": score, "expired": expired})
	if result.Error != nil {
		return false, apperror.Internal("failed to finalize exam attempt", result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	attempt.Submitted = true
	attempt.Score = score
	attempt.Expired = expired
	return true, nil
}

func (r *examAttemptRepository) ListExpiredOpen(ctx context.Context, now time.Time, limit int) ([]model.ExamAttempt, error) {
	var attempts []model.ExamAttempt
	err := r.db.WithContext(ctx).
		Where("submitted = ? AND expires_at < ?", false, now).
		Order("expires_at ASC").
		Limit(limit).
		Find(&attempts).Error
	if err != nil {
		return nil, apperror.Internal("failed to list expired attempts", err)
	}
	return attempts, nil
}
