package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/irshad/hiring/internal/apperror"
	"github.com/irshad/hiring/internal/dto"
	"github.com/irshad/hiring/internal/model"
	"github.com/irshad/hiring/internal/notify"
	"github.com/irshad/hiring/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	interviewDateLayout = "2006-01-02"
	interviewTimeLayout = "15:04"
)

// InterviewService closes the lifecycle: interviews, acceptance and rejection.
// Notifications are best-effort and never undo a decision.
type InterviewService interface {
	Schedule(ctx context.Context, companyID, jobID, applicationID uint, req dto.ScheduleInterviewRequest) (*dto.InterviewResponse, error)
	ListInterviews(ctx context.Context, companyID, jobID, applicationID uint) ([]dto.InterviewResponse, error)
	CurrentInterview(ctx context.Context, companyID, jobID, applicationID uint) (*dto.InterviewResponse, error)
	Accept(ctx context.Context, companyID, candidateID uint, jobID *uint) (*dto.DecisionResponse, error)
	Reject(ctx context.Context, companyID, candidateID, jobID uint, feedback string) (*dto.DecisionResponse, error)
}

type interviewService struct {
	jobRepo       repository.JobRepository
	appRepo       repository.ApplicationRepository
	interviewRepo repository.InterviewRepository
	notifier      notify.Notifier
	clock         func() time.Time
}

func NewInterviewService(
	jobRepo repository.JobRepository,
	appRepo repository.ApplicationRepository,
	interviewRepo repository.InterviewRepository,
	notifier notify.Notifier,
) InterviewService {
	return &interviewService{
		jobRepo:       jobRepo,
		appRepo:       appRepo,
		interviewRepo: interviewRepo,
		notifier:      notifier,
		clock:         time.Now,
	}
}

func (s *interviewService) Schedule(ctx context.Context, companyID, jobID, applicationID uint, req dto.ScheduleInterviewRequest) (*dto.InterviewResponse, error) {
	job, application, err := s.jobApplication(ctx, companyID, jobID, applicationID)
	if err != nil {
		return nil, err
	}

	scheduledAt, err := time.Parse(interviewDateLayout+" "+interviewTimeLayout,
		strings.TrimSpace(req.InterviewDate)+" "+strings.TrimSpace(req.InterviewTime))
	if err != nil {
		return nil, apperror.Validation("interview date must be YYYY-MM-DD and time HH:MM")
	}

	interview := &model.Interview{
		ApplicationID: application.ID,
		ScheduledAt:   scheduledAt,
		MeetingURL:    strings.TrimSpace(req.MeetingURL),
		Notes:         strings.TrimSpace(req.Notes),
	}
	if err := s.interviewRepo.Create(ctx, interview); err != nil {
		return nil, err
	}
	log.Info().Uint("applicationID", application.ID).Time("scheduledAt", scheduledAt).Msg("Interview scheduled")

	var body strings.Builder
	fmt.Fprintf(&body, "Dear %s,\n\nYour interview for %s is scheduled on %s at %s.\n",
		application.Candidate.FullName(), job.Title, req.InterviewDate, req.InterviewTime)
	if interview.MeetingURL != "" {
		fmt.Fprintf(&body, "Meeting link: %s\n", interview.MeetingURL)
	}
	if interview.Notes != "" {
		fmt.Fprintf(&body, "Notes: %s\n", interview.Notes)
	}
	s.notify(ctx, application, "Interview scheduled: "+job.Title, body.String())

	return toInterviewResponse(interview)
}

func (s *interviewService) jobApplication(ctx context.Context, companyID, jobID, applicationID uint) (*model.Job, *model.Application, error) {
	job, err := ownedJob(ctx, s.jobRepo, companyID, jobID)
	if err != nil {
		return nil, nil, err
	}
	application, err := s.appRepo.FindByID(ctx, applicationID)
	if err != nil {
		return nil, nil, err
	}
	if application.JobID != job.ID {
		return nil, nil, apperror.NotFound("application not found for this job")
	}
	return job, application, nil
}

func (s *interviewService) ListInterviews(ctx context.Context, companyID, jobID, applicationID uint) ([]dto.InterviewResponse, error) {
	_, application, err := s.jobApplication(ctx, companyID, jobID, applicationID)
	if err != nil {
		return nil, err
	}
	interviews, err := s.interviewRepo.ListByApplication(ctx, application.ID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.InterviewResponse, 0, len(interviews))
	for i := range interviews {
		item, err := toInterviewResponse(&interviews[i])
		if err != nil {
			return nil, err
		}
		resp = append(resp, *item)
	}
	return resp, nil
}

// CurrentInterview returns the most recently scheduled interview.
func (s *interviewService) CurrentInterview(ctx context.Context, companyID, jobID, applicationID uint) (*dto.InterviewResponse, error) {
	interviews, err := s.ListInterviews(ctx, companyID, jobID, applicationID)
	if err != nil {
		return nil, err
	}
	if len(interviews) == 0 {
		return nil, apperror.NotFound("no interview scheduled")
	}
	return &interviews[0], nil
}

// Accept accepts the candidate's pending application. Without jobID exactly one
// pending application across the company's jobs must exist.
func (s *interviewService) Accept(ctx context.Context, companyID, candidateID uint, jobID *uint) (*dto.DecisionResponse, error) {
	if jobID != nil {
		if _, err := ownedJob(ctx, s.jobRepo, companyID, *jobID); err != nil {
			return nil, err
		}
	}

	pending, err := s.appRepo.FindPendingForCandidate(ctx, companyID, candidateID, jobID)
	if err != nil {
		return nil, err
	}
	switch {
	case len(pending) == 0 && jobID != nil:
		return nil, s.notPendingError(ctx, candidateID, *jobID)
	case len(pending) == 0:
		return nil, apperror.NotFound("no pending application found for this candidate")
	case len(pending) > 1:
		return nil, apperror.Conflict("candidate has several pending applications; specify job_id").
			WithDetail("pending", fmt.Sprint(len(pending)))
	}

	application := &pending[0]
	if err := s.decide(ctx, application, model.EventAccept); err != nil {
		return nil, err
	}

	body := fmt.Sprintf("Dear %s,\n\nCongratulations! Your application for %s has been accepted.\n",
		application.Candidate.FullName(), application.Job.Title)
	notified := s.notify(ctx, application, "Application accepted: "+application.Job.Title, body)
	return s.decision(application, notified), nil
}

func (s *interviewService) Reject(ctx context.Context, companyID, candidateID, jobID uint, feedback string) (*dto.DecisionResponse, error) {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return nil, apperror.Validation("feedback is required")
	}
	if _, err := ownedJob(ctx, s.jobRepo, companyID, jobID); err != nil {
		return nil, err
	}

	application, err := s.appRepo.FindLatest(ctx, candidateID, jobID)
	if apperror.Is(err, apperror.CodeNotFound) {
		return nil, apperror.NotFound("candidate has not applied for this job")
	}
	if err != nil {
		return nil, err
	}
	if application.Status != model.ApplicationPending {
		return nil, alreadyDecided(application.Status)
	}

	application.RejectionFeedback = feedback
	if err := s.decide(ctx, application, model.EventReject); err != nil {
		return nil, err
	}

	body := fmt.Sprintf("Dear %s,\n\nThank you for applying to %s. Unfortunately your application was not successful.\n\nFeedback: %s\n",
		application.Candidate.FullName(), application.Job.Title, feedback)
	notified := s.notify(ctx, application, "Application update: "+application.Job.Title, body)
	return s.decision(application, notified), nil
}

func (s *interviewService) notPendingError(ctx context.Context, candidateID, jobID uint) error {
	latest, err := s.appRepo.FindLatest(ctx, candidateID, jobID)
	if apperror.Is(err, apperror.CodeNotFound) {
		return apperror.NotFound("candidate has not applied for this job")
	}
	if err != nil {
		return err
	}
	return alreadyDecided(latest.Status)
}

func alreadyDecided(status model.ApplicationStatus) error {
	return apperror.Newf(apperror.CodeConflict, "application already %s", status).
		WithDetail("status", string(status))
}

func (s *interviewService) decide(ctx context.Context, application *model.Application, event model.ApplicationEvent) error {
	from := application.Status
	if err := application.Transition(event); err != nil {
		return alreadyDecided(from)
	}
	updated, err := s.appRepo.UpdateStatus(ctx, application, from)
	if err != nil {
		return err
	}
	if !updated {
		return apperror.Conflict("application was decided concurrently")
	}
	log.Info().
		Uint("applicationID", application.ID).
		Str("from", string(from)).
		Str("to", string(application.Status)).
		Msg("Application decided")
	return nil
}

// notify sends a best-effort notification and reports whether it was delivered.
func (s *interviewService) notify(ctx context.Context, application *model.Application, subject, body string) bool {
	err := s.notifier.Notify(ctx, notify.Message{To: application.Candidate.Email, Subject: subject, Body: body})
	if err != nil {
		log.Error().Err(err).Uint("applicationID", application.ID).Str("subject", subject).
			Msg("Failed to notify candidate")
		return false
	}
	return true
}

func (s *interviewService) decision(application *model.Application, notified bool) *dto.DecisionResponse {
	return &dto.DecisionResponse{
		ApplicationID: application.ID,
		CandidateID:   application.CandidateID,
		JobID:         application.JobID,
		JobTitle:      application.Job.Title,
		Status:        string(application.Status),
		Feedback:      application.RejectionFeedback,
		DecidedAt:     s.clock(),
		Notified:      notified,
	}
}
