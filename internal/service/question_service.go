package service

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/irshad/hiring/internal/apperror"
	"github.com/irshad/hiring/internal/dto"
	"github.com/irshad/hiring/internal/model"
	"github.com/irshad/hiring/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

// QuestionService lets a company author the multiple-choice bank of its job's test.
type QuestionService interface {
	AddQuestion(ctx context.Context, companyID, jobID uint, req dto.QuestionCreateDTO) (*dto.QuestionAdminDTO, error)
	ListQuestions(ctx context.Context, companyID, jobID uint) ([]dto.QuestionAdminDTO, error)
}

type questionService struct {
	jobRepo      repository.JobRepository
	questionRepo repository.QuestionRepository
}

func NewQuestionService(jobRepo repository.JobRepository, questionRepo repository.QuestionRepository) QuestionService {
	return &questionService{jobRepo: jobRepo, questionRepo: questionRepo}
}

func (s *questionService) AddQuestion(ctx context.Context, companyID, jobID uint, req dto.QuestionCreateDTO) (*dto.QuestionAdminDTO, error) {
	if _, err := ownedJob(ctx, s.jobRepo, companyID, jobID); err != nil {
		return nil, err
	}
	if err := validateQuestion(req); err != nil {
		return nil, err
	}

	question := model.Question{
		JobID:               jobID,
		Text:                strings.TrimSpace(req.Text),
		TestDurationMinutes: req.TestDurationMinutes,
	}
	for _, o := range req.Options {
		question.Options = append(question.Options, model.Option{Text: strings.TrimSpace(o.Text), IsCorrect: o.IsCorrect})
	}

	if err := s.questionRepo.Create(ctx, &question); err != nil {
		log.Error().Err(err).Uint("jobID", jobID).Msg("Failed to create question")
		return nil, err
	}
	log.Info().Uint("jobID", jobID).Uint("questionID", question.ID).Msg("Question added")

	var resp dto.QuestionAdminDTO
	if err := copier.Copy(&resp, &question); err != nil {
		return nil, apperror.Internal("error preparing question response", errors.Wrap(err, "copy question"))
	}
	return &resp, nil
}

func validateQuestion(req dto.QuestionCreateDTO) error {
	if strings.TrimSpace(req.Text) == "" {
		return apperror.Validation("question text is required")
	}
	if len(req.Options) < 2 {
		return apperror.Validation("a question needs at least two options")
	}
	correct := 0
	for _, o := range req.Options {
		if strings.TrimSpace(o.Text) == "" {
			return apperror.Validation("option text is required")
		}
		if o.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return apperror.Validation("a question needs exactly one correct option")
	}
	if req.TestDurationMinutes < 0 {
		return apperror.Validation("test duration must be positive")
	}
	return nil
}

func (s *questionService) ListQuestions(ctx context.Context, companyID, jobID uint) ([]dto.QuestionAdminDTO, error) {
	if _, err := ownedJob(ctx, s.jobRepo, companyID, jobID); err != nil {
		return nil, err
	}
	questions, err := s.questionRepo.FindByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.QuestionAdminDTO, 0, len(questions))
	if err := copier.Copy(&resp, &questions); err != nil {
		return nil, apperror.Internal("error preparing questions response", errors.Wrap(err, "copy questions"))
	}
	return resp, nil
}
