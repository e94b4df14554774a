package service

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/irshad/hiring/internal/apperror"
	"github.com/irshad/hiring/internal/dto"
	"github.com/irshad/hiring/internal/model"
	"github.com/irshad/hiring/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRejectDistinguishesNeverAppliedFromDecided(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	accepted, _ := applied(t, env, "Ana")
	stranger, _ := testdb.Candidate(t, env.db, "Ben")
	jobID := env.job.ID

	_, err := env.interviews.Accept(ctx, env.company.ID, accepted.ID, &jobID)
	require.NoError(t, err)

	_, decidedErr := env.interviews.Reject(ctx, env.company.ID, accepted.ID, jobID, "Position filled")
	_, neverErr := env.interviews.Reject(ctx, env.company.ID, stranger.ID, jobID, "Position filled")

	decided, ok := apperror.As(decidedErr)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, decided.Code)
	assert.Equal(t, "accepted", decided.Details["status"])

	never, ok := apperror.As(neverErr)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeNotFound, never.Code)
}

func TestRejectStoresFeedbackAndNotifies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	candidate, app := applied(t, env, "Ana")

	resp, err := env.interviews.Reject(ctx, env.company.ID, candidate.ID, env.job.ID, "  Needs more SQL depth  ")

	require.NoError(t, err)
	assert.Equal(t, string(model.ApplicationRejected), resp.Status)
	assert.Equal(t, "Needs more SQL depth", resp.Feedback)
	assert.True(t, resp.Notified)
	assert.Equal(t, env.now, resp.DecidedAt)

	stored := env.reloadApplication(t, app.ID)
	assert.Equal(t, model.ApplicationRejected, stored.Status)
	assert.Equal(t, "Needs more SQL depth", stored.RejectionFeedback)
	assert.Nil(t, stored.ActiveSlot)

	require.Len(t, env.notifier.messages, 1)
	assert.Equal(t, candidate.Email, env.notifier.messages[0].To)
	assert.Contains(t, env.notifier.messages[0].Body, "Needs more SQL depth")
}

func TestRejectValidatesFeedbackAndOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	candidate, _ := applied(t, env, "Ana")
	rival := testdb.Company(t, env.db, "Rival")

	_, err := env.interviews.Reject(ctx, env.company.ID, candidate.ID, env.job.ID, "   ")
	assert.True(t, apperror.Is(err, apperror.CodeValidation))

	_, err = env.interviews.Reject(ctx, rival.ID, candidate.ID, env.job.ID, "Not a fit")
	assert.True(t, apperror.Is(err, apperror.CodeForbidden))
}

func TestDecisionSurvivesNotificationFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	candidate, app := applied(t, env, "Ana")
	env.notifier.err = errors.New("smtp: 421 service not available")

	resp, err := env.interviews.Reject(ctx, env.company.ID, candidate.ID, env.job.ID, "Not a fit")

	require.NoError(t, err)
	assert.False(t, resp.Notified)
	assert.Equal(t, model.ApplicationRejected, env.reloadApplication(t, app.ID).Status)
}

func TestAcceptWithoutJobRequiresSinglePending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	candidate, _ := testdb.Candidate(t, env.db, "Ana")
	second := testdb.Job(t, env.db, env.company.ID, "SRE")

	_, err := env.interviews.Accept(ctx, env.company.ID, candidate.ID, nil)
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))

	_, err = env.applications.Apply(ctx, candidate.ID, env.job.ID, dto.ApplyRequest{})
	require.NoError(t, err)
	_, err = env.applications.Apply(ctx, candidate.ID, second.ID, dto.ApplyRequest{})
	require.NoError(t, err)

	_, err = env.interviews.Accept(ctx, env.company.ID, candidate.ID, nil)
	assert.True(t, apperror.Is(err, apperror.CodeConflict))

	jobID := second.ID
	resp, err := env.interviews.Accept(ctx, env.company.ID, candidate.ID, &jobID)
	require.NoError(t, err)
	assert.Equal(t, string(model.ApplicationAccepted), resp.Status)
	assert.Equal(t, "SRE", resp.JobTitle)

	resp, err = env.interviews.Accept(ctx, env.company.ID, candidate.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, env.job.ID, resp.JobID)
	assert.Len(t, env.notifier.messages, 2)
}

func TestAcceptScopedToCompany(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	candidate, _ := applied(t, env, "Ana")
	rival := testdb.Company(t, env.db, "Rival")

	_, err := env.interviews.Accept(ctx, rival.ID, candidate.ID, nil)
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))

	jobID := env.job.ID
	_, err = env.interviews.Accept(ctx, rival.ID, candidate.ID, &jobID)
	assert.True(t, apperror.Is(err, apperror.CodeForbidden))
}

func TestAcceptedApplicationStillBlocksReapply(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	candidate, _ := applied(t, env, "Ana")
	jobID := env.job.ID

	_, err := env.interviews.Accept(ctx, env.company.ID, candidate.ID, &jobID)
	require.NoError(t, err)

	_, err = env.applications.Apply(ctx, candidate.ID, jobID, dto.ApplyRequest{})
	assert.True(t, apperror.Is(err, apperror.CodeConflict))

	_, err = env.interviews.Accept(ctx, env.company.ID, candidate.ID, &jobID)
	assert.True(t, apperror.Is(err, apperror.CodeConflict))
}

func TestScheduleInterview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	candidate, app := applied(t, env, "Ana")

	resp, err := env.interviews.Schedule(ctx, env.company.ID, env.job.ID, app.ID, dto.ScheduleInterviewRequest{
		InterviewDate: "2026-03-10",
		InterviewTime: "09:30",
		MeetingURL:    "https://meet.example.com/abc",
		Notes:         "Bring your portfolio",
	})

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC), resp.ScheduledAt)
	require.Len(t, env.notifier.messages, 1)
	msg := env.notifier.messages[0]
	assert.Equal(t, candidate.Email, msg.To)
	assert.Contains(t, msg.Body, "2026-03-10")
	assert.Contains(t, msg.Body, "09:30")
	assert.Contains(t, msg.Body, "Bring your portfolio")
	assert.Equal(t, model.ApplicationPending, env.reloadApplication(t, app.ID).Status)

	_, err = env.interviews.Schedule(ctx, env.company.ID, env.job.ID, app.ID, dto.ScheduleInterviewRequest{
		InterviewDate: "2026-03-11",
		InterviewTime: "16:00",
	})
	require.NoError(t, err)

	list, err := env.interviews.ListInterviews(ctx, env.company.ID, env.job.ID, app.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	current, err := env.interviews.CurrentInterview(ctx, env.company.ID, env.job.ID, app.ID)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 11, 16, 0, 0, 0, time.UTC), current.ScheduledAt.UTC())
}

func TestScheduleInterviewPreconditions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, app := applied(t, env, "Ana")
	other := testdb.Job(t, env.db, env.company.ID, "SRE")
	req := dto.ScheduleInterviewRequest{InterviewDate: "2026-03-10", InterviewTime: "09:30"}

	_, err := env.interviews.Schedule(ctx, env.company.ID, other.ID, app.ID, req)
	assert.True(t, apperror.Is(err, apperror.CodeNotFound), "application of another job")

	_, err = env.interviews.Schedule(ctx, env.company.ID, env.job.ID, app.ID, dto.ScheduleInterviewRequest{InterviewDate: "10/03/2026", InterviewTime: "9am"})
	assert.True(t, apperror.Is(err, apperror.CodeValidation))

	_, err = env.interviews.CurrentInterview(ctx, env.company.ID, env.job.ID, app.ID)
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))
	assert.Empty(t, env.notifier.messages)
}
