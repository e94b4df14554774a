package service

import (
	"context"

	"github.com/irshad/hiring/internal/apperror"
	"github.com/irshad/hiring/internal/dto"
	"github.com/irshad/hiring/internal/model"
	"github.com/irshad/hiring/internal/repository"
	"github.com/irshad/hiring/internal/scoring"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ApplicationService owns the candidate side of the application lifecycle.
type ApplicationService interface {
	Apply(ctx context.Context, candidateID, jobID uint, req dto.ApplyRequest) (*dto.ApplicationResponse, error)
	Withdraw(ctx context.Context, candidateID, jobID uint) (*dto.ApplicationResponse, error)
	Get(ctx context.Context, candidateID, jobID uint) (*dto.ApplicationResponse, error)
	ListForCandidate(ctx context.Context, candidateID uint) ([]dto.ApplicationResponse, error)
}

type applicationService struct {
	db            *gorm.DB
	jobRepo       repository.JobRepository
	candidateRepo repository.CandidateRepository
	appRepo       repository.ApplicationRepository
	predictor     scoring.Predictor
	mode          scoring.Mode
	bander        SalaryBander
	checker       ExpiryChecker
}

func NewApplicationService(
	db *gorm.DB,
	jobRepo repository.JobRepository,
	candidateRepo repository.CandidateRepository,
	appRepo repository.ApplicationRepository,
	predictor scoring.Predictor,
	mode scoring.Mode,
	bander SalaryBander,
	checker ExpiryChecker,
) ApplicationService {
	return &applicationService{
		db:            db,
		jobRepo:       jobRepo,
		candidateRepo: candidateRepo,
		appRepo:       appRepo,
		predictor:     predictor,
		mode:          mode,
		bander:        bander,
		checker:       checker,
	}
}

func (s *applicationService) Apply(ctx context.Context, candidateID, jobID uint, req dto.ApplyRequest) (*dto.ApplicationResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if _, err := s.candidateRepo.FindByID(ctx, candidateID); err != nil {
		return nil, err
	}

	var resume *model.Resume
	if req.ResumeID != nil {
		resume, err = s.candidateRepo.FindResume(ctx, candidateID, *req.ResumeID)
	} else {
		resume, err = s.candidateRepo.LatestResume(ctx, candidateID)
	}
	if err != nil {
		return nil, err
	}

	// Fail fast before calling the prediction service; the transaction re-checks.
	if existing, err := s.appRepo.FindLatest(ctx, candidateID, jobID); err == nil && existing.Status.IsActive() {
		return nil, alreadyApplied(existing)
	} else if err != nil && !apperror.Is(err, apperror.CodeNotFound) {
		return nil, err
	}

	prediction, err := s.predictor.Predict(ctx, scoring.Request{
		CandidateSkills:       resume.Skills,
		CandidateExperience:   resume.ExperienceYears,
		CandidateEducation:    resume.Education,
		JobTitle:              job.Title,
		JobDescription:        job.Description,
		JobRequiredSkills:     job.RequiredSkills,
		JobRequiredExperience: job.RequiredExperience,
	})
	if err != nil {
		log.Error().Err(err).Uint("candidateID", candidateID).Uint("jobID", jobID).Msg("Apply: prediction service failed")
		return nil, apperror.ExternalService("score service unavailable", err)
	}

	score := prediction.Score(s.mode)
	application := &model.Application{
		CandidateID:     candidateID,
		JobID:           jobID,
		ResumeID:        resume.ID,
		Status:          model.ApplicationPending,
		TestStatus:      model.TestNotStarted,
		AcceptanceScore: prediction.AcceptanceScore,
		SimilarityScore: prediction.SimilarityScore,
		RankingScore:    score,
		EstimatedSalary: s.bander.Band(prediction.EstimatedSalary, score),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		appRepo := s.appRepo.WithTx(tx)
		existing, err := appRepo.FindLatest(ctx, candidateID, jobID)
		switch {
		case err == nil && existing.Status.IsActive():
			return alreadyApplied(existing)
		case err == nil:
			log.Info().Uint("applicationID", existing.ID).Str("status", string(existing.Status)).
				Msg("Apply: replacing terminal application")
			if err := appRepo.DeleteWithChildren(ctx, existing.ID); err != nil {
				return err
			}
		case !apperror.Is(err, apperror.CodeNotFound):
			return err
		}
		return appRepo.Create(ctx, application)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Uint("applicationID", application.ID).
		Uint("candidateID", candidateID).
		Uint("jobID", jobID).
		Float64("rankingScore", application.RankingScore).
		Int("estimatedSalary", application.EstimatedSalary).
		Msg("Application created")
	return toApplicationResponse(application)
}

func alreadyApplied(existing *model.Application) error {
	return apperror.Conflict("already applied; reapply only after withdrawal or rejection").
		WithDetail("status", string(existing.Status))
}

func (s *applicationService) Withdraw(ctx context.Context, candidateID, jobID uint) (*dto.ApplicationResponse, error) {
	application, err := s.appRepo.FindLatest(ctx, candidateID, jobID)
	if err != nil {
		return nil, err
	}

	from := application.Status
	if err := application.Transition(model.EventWithdraw); err != nil {
		if from == model.ApplicationAccepted {
			return nil, apperror.Forbidden("cannot withdraw after acceptance")
		}
		return nil, apperror.Newf(apperror.CodeConflict, "application already %s", from).
			WithDetail("status", string(from))
	}

	updated, err := s.appRepo.UpdateStatus(ctx, application, from)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apperror.Conflict("application was decided concurrently")
	}

	log.Info().Uint("applicationID", application.ID).Uint("candidateID", candidateID).Msg("Application withdrawn")
	return toApplicationResponse(application)
}

func (s *applicationService) Get(ctx context.Context, candidateID, jobID uint) (*dto.ApplicationResponse, error) {
	application, err := s.appRepo.FindLatest(ctx, candidateID, jobID)
	if err != nil {
		return nil, err
	}
	if err := settleExpiry(ctx, s.checker, application); err != nil {
		return nil, err
	}
	return toApplicationResponse(application)
}

func (s *applicationService) ListForCandidate(ctx context.Context, candidateID uint) ([]dto.ApplicationResponse, error) {
	applications, err := s.appRepo.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ApplicationResponse, 0, len(applications))
	for i := range applications {
		if err := settleExpiry(ctx, s.checker, &applications[i]); err != nil {
			return nil, err
		}
		item, err := toApplicationResponse(&applications[i])
		if err != nil {
			return nil, err
		}
		resp = append(resp, *item)
	}
	return resp, nil
}
