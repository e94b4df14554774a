package repository

import (
	"context"

	"github.com/irshad/hiring/internal/apperror"
	"github.com/irshad/hiring/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicationRepository interface {
	WithTx(tx *gorm.DB) ApplicationRepository
	Create(ctx context.Context, application *model.Application) error
	FindByID(ctx context.Context, id uint) (*model.Application, error)
	// FindLatest returns the newest application row for the pair, whatever its status.
	FindLatest(ctx context.Context, candidateID, jobID uint) (*model.Application, error)
	FindPendingForCandidate(ctx context.Context, companyID, candidateID uint, jobID *uint) ([]model.Application, error)
	ListByCandidate(ctx context.Context, candidateID uint) ([]model.Application, error)
	ListByJob(ctx context.Context, jobID uint) ([]model.Application, error)
	// UpdateStatus writes the decision columns only if the stored status is still
	// from. It reports whether the row was updated.
	UpdateStatus(ctx context.Context, application *model.Application, from model.ApplicationStatus) (bool, error)
	// UpdateTestOutcome writes the test columns only if the stored test status is still from.
	UpdateTestOutcome(ctx context.Context, application *model.Application, from model.TestStatus) (bool, error)
	// DeleteWithChildren removes a terminal application along with its answers and interviews.
	DeleteWithChildren(ctx context.Context, id uint) error
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) WithTx(tx *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: tx}
}

func (r *applicationRepository) Create(ctx context.Context, application *model.Application) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(application).Error
	return translate(err, "application not found",
		"already applied; reapply only after withdrawal or rejection", "failed to create application")
}

func (r *applicationRepository) FindByID(ctx context.Context, id uint) (*model.Application, error) {
	var application model.Application
	err := r.db.WithContext(ctx).Preload("Job").Preload("Candidate").First(&application, id).Error
	if err != nil {
		return nil, translate(err, "application not found", "application conflict", "failed to load application")
	}
	return &application, nil
}

func (r *applicationRepository) FindLatest(ctx context.Context, candidateID, jobID uint) (*model.Application, error) {
	var application model.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Preload("Candidate").
		Where("candidate_id = ? AND job_id = ?", candidateID, jobID).
		Order("created_at DESC").Order("id DESC").
		First(&application).Error
	if err != nil {
		return nil, translate(err, "application not found", "application conflict", "failed to load application")
	}
	return &application, nil
}

// FindPendingForCandidate lists the candidate's pending applications to the company's
// jobs, optionally narrowed to one job.
func (r *applicationRepository) FindPendingForCandidate(ctx context.Context, companyID, candidateID uint, jobID *uint) ([]model.Application, error) {
	query := r.db.WithContext(ctx).
		Preload("Job").
		Preload("Candidate").
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.company_id = ? AND applications.candidate_id = ? AND applications.status = ?",
			companyID, candidateID, model.ApplicationPending)
	if jobID != nil {
		query = query.Where("applications.job_id = ?", *jobID)
	}

	var applications []model.Application
	if err := query.Order("applications.created_at ASC").Find(&applications).Error; err != nil {
		return nil, apperror.Internal("failed to load pending applications", err)
	}
	return applications, nil
}

func (r *applicationRepository) ListByCandidate(ctx context.Context, candidateID uint) ([]model.Application, error) {
	var applications []model.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC").Order("id DESC").
		Find(&applications).Error
	if err != nil {
		return nil, apperror.Internal("failed to list applications", err)
	}
	return applications, nil
}

// ListByJob returns the job's applications in creation order with candidates and interviews.
func (r *applicationRepository) ListByJob(ctx context.Context, jobID uint) ([]model.Application, error) {
	var applications []model.Application
	err := r.db.WithContext(ctx).
		Preload("Candidate").
		Preload("Interviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("interviews.created_at DESC").Order("interviews.id DESC")
		}).
		Where("job_id = ?", jobID).
		Order("created_at ASC").Order("id ASC").
		Find(&applications).Error
	if err != nil {
		return nil, apperror.Internal("failed to list applicants", err)
	}
	return applications, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, application *model.Application, from model.ApplicationStatus) (bool, error) {
	// Hooks do not see map updates, so ActiveSlot is synced here.
	if err := application.BeforeSave(nil); err != nil {
		return false, err
	}
	return r.conditionalUpdate(ctx, application.ID, "status = ?", from, map[string]any{
		"status":             application.Status,
		"rejection_feedback": application.RejectionFeedback,
		"active_slot":        application.ActiveSlot,
	})
}

func (r *applicationRepository) UpdateTestOutcome(ctx context.Context, application *model.Application, from model.TestStatus) (bool, error) {
	return r.conditionalUpdate(ctx, application.ID, "test_status = ?", from, map[string]any{
		"test_status": application.TestStatus,
		"test_score":  application.TestScore,
	})
}

func (r *applicationRepository) conditionalUpdate(ctx context.Context, id uint, cond string, expected any, columns map[string]any) (bool, error) {
	result := r.db.WithContext(ctx).
		Session(&gorm.Session{SkipHooks: true}).
		Model(&model.Application{}).
		Where("id = ?", id).
		Where(cond, expected).
		Updates(columns)
	if result.Error != nil {
		return false, translate(result.Error, "application not found",
			"already applied; reapply only after withdrawal or rejection", "failed to update application")
	}
	return result.RowsAffected == 1, nil
}

func (r *applicationRepository) DeleteWithChildren(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("application_id = ?", id).Delete(&model.TestAnswer{}).Error; err != nil {
		return apperror.Internal("failed to delete test answers", err)
	}
	if err := db.Where("application_id = ?", id).Delete(&model.Interview{}).Error; err != nil {
		return apperror.Internal("failed to delete interviews", err)
	}
	if err := db.Delete(&model.Application{}, id).Error; err != nil {
		return apperror.Internal("failed to delete application", err)
	}
	return nil
}
