package repository

import (
	"context"

	"github.com/irshad/hiring/internal/model"
	"gorm.io/gorm"
)

type CandidateRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Candidate, error)
	// LatestResume returns the candidate's most recently uploaded resume.
	LatestResume(ctx context.Context, candidateID uint) (*model.Resume, error)
	FindResume(ctx context.Context, candidateID, resumeID uint) (*model.Resume, error)
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) FindByID(ctx context.Context, id uint) (*model.Candidate, error) {
	var candidate model.Candidate
	if err := r.db.WithContext(ctx).First(&candidate, id).Error; err != nil {
		return nil, translate(err, "candidate not found", "candidate conflict", "failed to load candidate")
	}
	return &candidate, nil
}

func (r *candidateRepository) LatestResume(ctx context.Context, candidateID uint) (*model.Resume, error) {
	var resume model.Resume
	err := r.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC").Order("id DESC").
		First(&resume).Error
	if err != nil {
		return nil, translate(err, "candidate has no resume on file", "resume conflict", "failed to load resume")
	}
	return &resume, nil
}

func (r *candidateRepository) FindResume(ctx context.Context, candidateID, resumeID uint) (*model.Resume, error) {
	var resume model.Resume
	err := r.db.WithContext(ctx).
		Where("id = ? AND candidate_id = ?", resumeID, candidateID).
		First(&resume).Error
	if err != nil {
		return nil, translate(err, "resume not found", "resume conflict", "failed to load resume")
	}
	return &resume, nil
}
