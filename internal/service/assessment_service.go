package service

import (
	"context"
	"time"

	"github.com/irshad/hiring/internal/apperror"
	"github.com/irshad/hiring/internal/dto"
	"github.com/irshad/hiring/internal/model"
	"github.com/irshad/hiring/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const sweepBatchSize = 200

// AssessmentService administers the single timed test of a (candidate, job) pair
// and grades it. Every read of attempt state runs the expiry check first.
type AssessmentService interface {
	Start(ctx context.Context, candidateID, jobID uint) (*dto.TestSessionDTO, error)
	Questions(ctx context.Context, candidateID, jobID uint) (*dto.TestSessionDTO, error)
	Attempt(ctx context.Context, candidateID, jobID uint) (*dto.AttemptStateDTO, error)
	Submit(ctx context.Context, candidateID, jobID uint, req dto.SubmitTestRequest) (*dto.TestResultDTO, error)
	Expire(ctx context.Context, candidateID, jobID uint) (*dto.TestResultDTO, error)
	// CheckExpiry finalizes the attempt with a zero score if its time is up and
	// reports whether the attempt is expired.
	CheckExpiry(ctx context.Context, candidateID, jobID uint) (bool, error)
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}

type assessmentService struct {
	db              *gorm.DB
	jobRepo         repository.JobRepository
	appRepo         repository.ApplicationRepository
	attemptRepo     repository.ExamAttemptRepository
	answerRepo      repository.TestAnswerRepository
	shuffler        *Shuffler
	defaultDuration time.Duration
	clock           func() time.Time
}

func NewAssessmentService(
	db *gorm.DB,
	jobRepo repository.JobRepository,
	appRepo repository.ApplicationRepository,
	attemptRepo repository.ExamAttemptRepository,
	answerRepo repository.TestAnswerRepository,
	shuffler *Shuffler,
	defaultDuration time.Duration,
) AssessmentService {
	return &assessmentService{
		db:              db,
		jobRepo:         jobRepo,
		appRepo:         appRepo,
		attemptRepo:     attemptRepo,
		answerRepo:      answerRepo,
		shuffler:        shuffler,
		defaultDuration: defaultDuration,
		clock:           time.Now,
	}
}

func (s *assessmentService) Start(ctx context.Context, candidateID, jobID uint) (*dto.TestSessionDTO, error) {
	application, err := s.activeApplication(ctx, candidateID, jobID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobRepo.FindByIDWithQuestions(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if len(job.Questions) == 0 {
		return nil, apperror.NotFound("no test configured for this job")
	}

	now := s.clock()
	attempt := &model.ExamAttempt{
		CandidateID: candidateID,
		JobID:       jobID,
		AttemptedAt: now,
		ExpiresAt:   now.Add(s.testDuration(job.Questions)),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.attemptRepo.WithTx(tx).Create(ctx, attempt); err != nil {
			return err
		}
		from := application.TestStatus
		if err := application.TransitionTest(model.EventStartTest); err != nil {
			return apperror.Newf(apperror.CodeConflict, "test is already %s", from).WithDetail("test_status", string(from))
		}
		updated, err := s.appRepo.WithTx(tx).UpdateTestOutcome(ctx, application, from)
		if err != nil {
			return err
		}
		if !updated {
			return apperror.Conflict("test already started")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Uint("candidateID", candidateID).
		Uint("jobID", jobID).
		Time("expiresAt", attempt.ExpiresAt).
		Msg("Test started")
	return &dto.TestSessionDTO{
		JobID:       jobID,
		AttemptedAt: attempt.AttemptedAt,
		ExpiresAt:   attempt.ExpiresAt,
		Questions:   s.shuffler.Questions(job.Questions),
	}, nil
}

// testDuration is configured by the job's first question.
func (s *assessmentService) testDuration(questions []model.Question) time.Duration {
	if len(questions) > 0 && questions[0].TestDurationMinutes > 0 {
		return time.Duration(questions[0].TestDurationMinutes) * time.Minute
	}
	return s.defaultDuration
}

func (s *assessmentService) activeApplication(ctx context.Context, candidateID, jobID uint) (*model.Application, error) {
	application, err := s.appRepo.FindLatest(ctx, candidateID, jobID)
	if apperror.Is(err, apperror.CodeNotFound) {
		return nil, apperror.NotFound("you have not applied for this job")
	}
	if err != nil {
		return nil, err
	}
	if !application.Status.IsActive() {
		return nil, apperror.Newf(apperror.CodeConflict, "application is %s", application.Status).
			WithDetail("status", string(application.Status))
	}
	return application, nil
}

func (s *assessmentService) Questions(ctx context.Context, candidateID, jobID uint) (*dto.TestSessionDTO, error) {
	attempt, err := s.attemptRepo.Find(ctx, candidateID, jobID)
	if err != nil {
		return nil, err
	}
	if _, err := s.expireIfDue(ctx, attempt); err != nil {
		return nil, err
	}
	if err := closedAttemptError(attempt); err != nil {
		return nil, err
	}

	job, err := s.jobRepo.FindByIDWithQuestions(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return &dto.TestSessionDTO{
		JobID:       jobID,
		AttemptedAt: attempt.AttemptedAt,
		ExpiresAt:   attempt.ExpiresAt,
		Questions:   s.shuffler.Questions(job.Questions),
	}, nil
}

func closedAttemptError(attempt *model.ExamAttempt) error {
	switch {
	case attempt.Submitted && attempt.Expired:
		return apperror.Conflict("test expired").WithDetail("test_status", string(model.TestExpired))
	case attempt.Submitted:
		return apperror.Conflict("test already submitted").WithDetail("test_status", string(model.TestCompleted))
	default:
		return nil
	}
}

func (s *assessmentService) Attempt(ctx context.Context, candidateID, jobID uint) (*dto.AttemptStateDTO, error) {
	attempt, err := s.attemptRepo.Find(ctx, candidateID, jobID)
	if err != nil {
		return nil, err
	}
	if _, err := s.expireIfDue(ctx, attempt); err != nil {
		return nil, err
	}

	status := model.TestInProgress
	switch {
	case attempt.Submitted && attempt.Expired:
		status = model.TestExpired
	case attempt.Submitted:
		status = model.TestCompleted
	}
	return &dto.AttemptStateDTO{
		JobID:       jobID,
		AttemptedAt: attempt.AttemptedAt,
		ExpiresAt:   attempt.ExpiresAt,
		Submitted:   attempt.Submitted,
		Score:       attempt.Score,
		TestStatus:  string(status),
	}, nil
}

func (s *assessmentService) CheckExpiry(ctx context.Context, candidateID, jobID uint) (bool, error) {
	attempt, err := s.attemptRepo.Find(ctx, candidateID, jobID)
	if apperror.Is(err, apperror.CodeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if _, err := s.expireIfDue(ctx, attempt); err != nil {
		return false, err
	}
	return attempt.Submitted && attempt.Expired, nil
}

// expireIfDue finalizes an open attempt whose time is up. It reports whether
// this call performed the finalization; attempt reflects the stored state either way.
func (s *assessmentService) expireIfDue(ctx context.Context, attempt *model.ExamAttempt) (bool, error) {
	if !attempt.IsExpiredAt(s.clock()) {
		return false, nil
	}
	finalized, err := s.finalizeExpired(ctx, attempt)
	if err != nil {
		return false, err
	}
	if !finalized {
		// Someone else closed it first; reload to report what they stored.
		fresh, err := s.attemptRepo.Find(ctx, attempt.CandidateID, attempt.JobID)
		if err != nil {
			return false, err
		}
		*attempt = *fresh
	}
	return finalized, nil
}

// finalizeExpired closes the attempt with a zero score and moves the owning
// application's test to EXPIRED, atomically. It is shared by the inline check,
// explicit expiry and the background sweep.
func (s *assessmentService) finalizeExpired(ctx context.Context, attempt *model.ExamAttempt) (bool, error) {
	finalized := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.attemptRepo.WithTx(tx).Finalize(ctx, attempt, 0, true)
		if err != nil || !ok {
			return err
		}
		finalized = true

		appRepo := s.appRepo.WithTx(tx)
		application, err := appRepo.FindLatest(ctx, attempt.CandidateID, attempt.JobID)
		if apperror.Is(err, apperror.CodeNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if application.TestStatus != model.TestInProgress {
			return nil
		}
		if err := application.TransitionTest(model.EventExpireTest); err != nil {
			return err
		}
		application.TestScore = 0
		_, err = appRepo.UpdateTestOutcome(ctx, application, model.TestInProgress)
		return err
	})
	if err != nil {
		return false, err
	}
	if finalized {
		log.Info().
			Uint("candidateID", attempt.CandidateID).
			Uint("jobID", attempt.JobID).
			Time("expiresAt", attempt.ExpiresAt).
			Msg("Test attempt expired with zero score")
	}
	return finalized, nil
}

func (s *assessmentService) Submit(ctx context.Context, candidateID, jobID uint, req dto.SubmitTestRequest) (*dto.TestResultDTO, error) {
	application, err := s.appRepo.FindLatest(ctx, candidateID, jobID)
	if apperror.Is(err, apperror.CodeNotFound) {
		return nil, apperror.NotFound("you have not applied for this job")
	}
	if err != nil {
		return nil, err
	}
	attempt, err := s.attemptRepo.Find(ctx, candidateID, jobID)
	if err != nil {
		return nil, err
	}
	if err := closedAttemptError(attempt); err != nil {
		return nil, err
	}

	job, err := s.jobRepo.FindByIDWithQuestions(ctx, jobID)
	if err != nil {
		return nil, err
	}
	total := len(job.Questions)

	expired, err := s.expireIfDue(ctx, attempt)
	if err != nil {
		return nil, err
	}
	if expired {
		return &dto.TestResultDTO{Message: "Test time expired", Score: 0, TotalQuestions: total, Expired: true}, nil
	}
	if err := closedAttemptError(attempt); err != nil {
		return nil, err
	}

	score, answers := grade(job.Questions, application.ID, req.Answers)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.attemptRepo.WithTx(tx).Finalize(ctx, attempt, score, false)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.Conflict("test already submitted")
		}
		if err := s.answerRepo.WithTx(tx).CreateBatch(ctx, answers); err != nil {
			return err
		}

		from := application.TestStatus
		if err := application.TransitionTest(model.EventCompleteTest); err != nil {
			return apperror.Newf(apperror.CodeConflict, "no test in progress for this application (test is %s)", from).
				WithDetail("test_status", string(from))
		}
		application.TestScore = score
		updated, err := s.appRepo.WithTx(tx).UpdateTestOutcome(ctx, application, from)
		if err != nil {
			return err
		}
		if !updated {
			return apperror.Conflict("test already submitted")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Uint("candidateID", candidateID).
		Uint("jobID", jobID).
		Int("score", score).
		Int("total", total).
		Msg("Test submitted")
	return &dto.TestResultDTO{Message: "Test submitted successfully", Score: score, TotalQuestions: total}, nil
}

// grade scores answers against the bank. Answers naming an unknown question or
// option, or repeating a question, are skipped and leave no record.
func grade(questions []model.Question, applicationID uint, submitted []dto.AnswerDTO) (int, []model.TestAnswer) {
	bank := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		bank[q.ID] = q
	}

	score := 0
	answered := make(map[uint]bool, len(submitted))
	answers := make([]model.TestAnswer, 0, len(submitted))
	for _, a := range submitted {
		question, ok := bank[a.QuestionID]
		if !ok || answered[a.QuestionID] {
			log.Warn().Uint("questionID", a.QuestionID).Uint("applicationID", applicationID).
				Msg("Submit: answer for unknown or repeated question, skipping")
			continue
		}
		option, ok := question.FindOption(a.SelectedOptionID)
		if !ok {
			log.Warn().Uint("questionID", a.QuestionID).Uint("optionID", a.SelectedOptionID).
				Msg("Submit: option does not belong to question, skipping")
			continue
		}
		answered[a.QuestionID] = true
		if option.IsCorrect {
			score++
		}
		answers = append(answers, model.TestAnswer{
			ApplicationID:    applicationID,
			QuestionID:       question.ID,
			SelectedOptionID: option.ID,
			IsCorrect:        option.IsCorrect,
		})
	}
	return score, answers
}

func (s *assessmentService) Expire(ctx context.Context, candidateID, jobID uint) (*dto.TestResultDTO, error) {
	attempt, err := s.attemptRepo.Find(ctx, candidateID, jobID)
	if err != nil {
		return nil, err
	}
	if err := closedAttemptError(attempt); err != nil {
		return nil, err
	}
	finalized, err := s.finalizeExpired(ctx, attempt)
	if err != nil {
		return nil, err
	}
	if !finalized {
		return nil, apperror.Conflict("test already submitted")
	}

	job, err := s.jobRepo.FindByIDWithQuestions(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return &dto.TestResultDTO{Message: "Test expired", Score: 0, TotalQuestions: len(job.Questions), Expired: true}, nil
}

// SweepExpired finalizes open attempts past their deadline. Failures on single
// attempts are logged and left for the next sweep or the next read.
func (s *assessmentService) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	attempts, err := s.attemptRepo.ListExpiredOpen(ctx, now, sweepBatchSize)
	if err != nil {
		return 0, err
	}
	count := 0
	for i := range attempts {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		finalized, err := s.finalizeExpired(ctx, &attempts[i])
		if err != nil {
			log.Error().Err(err).
				Uint("candidateID", attempts[i].CandidateID).
				Uint("jobID", attempts[i].JobID).
				Msg("Sweep: failed to finalize expired attempt")
			continue
		}
		if finalized {
			count++
		}
	}
	return count, nil
}
