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
	"gorm.io/gorm"
)

// applied creates a candidate with a pending application to env.job.
func applied(t *testing.T, env *testEnv, name string) (*model.Candidate, *dto.ApplicationResponse) {
	t.Helper()
	candidate, _ := testdb.Candidate(t, env.db, name)
	resp, err := env.applications.Apply(context.Background(), candidate.ID, env.job.ID, dto.ApplyRequest{})
	require.NoError(t, err)
	return candidate, resp
}

func TestStartCreatesTimedAttemptWithShuffledQuestions(t *testing.T) {
	env := newTestEnv(t)
	testdb.Questions(t, env.db, env.job.ID, 3, 30)
	candidate, app := applied(t, env, "Ana")

	session, err := env.assessment.Start(context.Background(), candidate.ID, env.job.ID)

	require.NoError(t, err)
	assert.Equal(t, env.now, session.AttemptedAt)
	assert.Equal(t, env.now.Add(30*time.Minute), session.ExpiresAt)
	require.Len(t, session.Questions, 3)
	for _, q := range session.Questions {
		assert.Len(t, q.Options, 2)
	}
	assert.Equal(t, model.TestInProgress, env.reloadApplication(t, app.ID).TestStatus)
}

func TestStartFallsBackToDefaultDuration(t *testing.T) {
	env := newTestEnv(t)
	testdb.Questions(t, env.db, env.job.ID, 2, 0)
	candidate, _ := applied(t, env, "Ana")

	session, err := env.assessment.Start(context.Background(), candidate.ID, env.job.ID)

	require.NoError(t, err)
	assert.Equal(t, env.now.Add(10*time.Minute), session.ExpiresAt)
}

func TestStartTwiceConflicts(t *testing.T) {
	env := newTestEnv(t)
	testdb.Questions(t, env.db, env.job.ID, 2, 10)
	candidate, _ := applied(t, env, "Ana")
	ctx := context.Background()

	_, err := env.assessment.Start(ctx, candidate.ID, env.job.ID)
	require.NoError(t, err)

	_, err = env.assessment.Start(ctx, candidate.ID, env.job.ID)

	assert.True(t, apperror.Is(err, apperror.CodeConflict))
	var attempts int64
	require.NoError(t, env.db.Model(&model.ExamAttempt{}).Count(&attempts).Error)
	assert.EqualValues(t, 1, attempts)
}

func TestStartStaysSingleAcrossReapply(t *testing.T) {
	env := newTestEnv(t)
	testdb.Questions(t, env.db, env.job.ID, 2, 10)
	candidate, _ := applied(t, env, "Ana")
	ctx := context.Background()

	_, err := env.assessment.Start(ctx, candidate.ID, env.job.ID)
	require.NoError(t, err)
	_, err = env.applications.Withdraw(ctx, candidate.ID, env.job.ID)
	require.NoError(t, err)
	_, err = env.applications.Apply(ctx, candidate.ID, env.job.ID, dto.ApplyRequest{})
	require.NoError(t, err)

	_, err = env.assessment.Start(ctx, candidate.ID, env.job.ID)
	assert.True(t, apperror.Is(err, apperror.CodeConflict))
}

func TestStartPreconditions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	candidate, _ := testdb.Candidate(t, env.db, "Ana")

	_, err := env.assessment.Start(ctx, candidate.ID, env.job.ID)
	assert.True(t, apperror.Is(err, apperror.CodeNotFound), "not applied")

	_, err = env.applications.Apply(ctx, candidate.ID, env.job.ID, dto.ApplyRequest{})
	require.NoError(t, err)
	_, err = env.assessment.Start(ctx, candidate.ID, env.job.ID)
	assert.True(t, apperror.Is(err, apperror.CodeNotFound), "no questions")

	testdb.Questions(t, env.db, env.job.ID, 1, 5)
	_, err = env.applications.Withdraw(ctx, candidate.ID, env.job.ID)
	require.NoError(t, err)
	_, err = env.assessment.Start(ctx, candidate.ID, env.job.ID)
	assert.True(t, apperror.Is(err, apperror.CodeConflict), "withdrawn application")
}

func TestSubmitAfterExpiryScoresZero(t *testing.T) {
	env := newTestEnv(t)
	questions := testdb.Questions(t, env.db, env.job.ID, 3, 10)
	candidate, app := applied(t, env, "Ana")
	ctx := context.Background()

	_, err := env.assessment.Start(ctx, candidate.ID, env.job.ID)
	require.NoError(t, err)
	env.advance(11 * time.Minute)

	answers := make([]dto.AnswerDTO, 0, len(questions))
	for _, q := range questions {
		answers = append(answers, dto.AnswerDTO{QuestionID: q.ID, SelectedOptionID: testdb.Correct(q)})
	}
	result, err := env.assessment.Submit(ctx, candidate.ID, env.job.ID, dto.SubmitTestRequest{Answers: answers})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 3, result.TotalQuestions)
	assert.True(t, result.Expired)

	stored := env.reloadApplication(t, app.ID)
	assert.Equal(t, model.TestExpired, stored.TestStatus)
	assert.Equal(t, 0, stored.TestScore)

	var recorded int64
	require.NoError(t, env.db.Model(&model.TestAnswer{}).Count(&recorded).Error)
	assert.Zero(t, recorded)

	_, err = env.assessment.Submit(ctx, candidate.ID, env.job.ID, dto.SubmitTestRequest{Answers: answers})
	assert.True(t, apperror.Is(err, apperror.CodeConflict))
}

func allCorrect(questions []model.Question) dto.SubmitTestRequest {
	answers := make([]dto.AnswerDTO, 0, len(questions))
	for _, q := range questions {
		answers = append(answers, dto.AnswerDTO{QuestionID: q.ID, SelectedOptionID: testdb.Correct(q)})
	}
	return dto.SubmitTestRequest{Answers: answers}
}

func TestSubmitRollsBackWhenAnswersCannotBeSaved(t *testing.T) {
	env := newTestEnv(t)
	questions := testdb.Questions(t, env.db, env.job.ID, 2, 10)
	candidate, app := applied(t, env, "Ana")
	ctx := context.Background()

	_, err := env.assessment.Start(ctx, candidate.ID, env.job.ID)
	require.NoError(t, err)

	require.NoError(t, env.db.Callback().Create().Before("gorm:create").Register("test:fail_answers", func(tx *gorm.DB) {
		if tx.Statement.Table == "test_answers" {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))

	_, err = env.assessment.Submit(ctx, candidate.ID, env.job.ID, allCorrect(questions))

	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeInternal))

	attempt := env.loadAttempt(t, candidate.ID)
	assert.False(t, attempt.Submitted)
	assert.Zero(t, attempt.Score)

	var recorded int64
	require.NoError(t, env.db.Model(&model.TestAnswer{}).Count(&recorded).Error)
	assert.Zero(t, recorded)

	stored := env.reloadApplication(t, app.ID)
	assert.Equal(t, model.TestInProgress, stored.TestStatus)
	assert.Zero(t, stored.TestScore)
}

func TestSubmitRollsBackWhenApplicationHasNoTestInProgress(t *testing.T) {
	env := newTestEnv(t)
	questions := testdb.Questions(t, env.db, env.job.ID, 2, 10)
	candidate, _ := applied(t, env, "Ana")
	ctx := context.Background()

	_, err := env.assessment.Start(ctx, candidate.ID, env.job.ID)
	require.NoError(t, err)
	_, err = env.applications.Withdraw(ctx, candidate.ID, env.job.ID)
	require.NoError(t, err)
	reapplied, err := env.applications.Apply(ctx, candidate.ID, env.job.ID, dto.ApplyRequest{})
	require.NoError(t, err)

	_, err = env.assessment.Submit(ctx, candidate.ID, env.job.ID, allCorrect(questions))

	assert.True(t, apperror.Is(err, apperror.CodeConflict))

	attempt := env.loadAttempt(t, candidate.ID)
	assert.False(t, attempt.Submitted)
	assert.Zero(t, attempt.Score)

	var recorded int64
	require.NoError(t, env.db.Model(&model.TestAnswer{}).Count(&recorded).Error)
	assert.Zero(t, recorded)

	stored := env.reloadApplication(t, reapplied.ID)
	assert.Equal(t, model.TestNotStarted, stored.TestStatus)
	assert.Zero(t, stored.TestScore)
}

func TestSubmitGradesKnownAnswersOnly(t *testing.T) {
	env := newTestEnv(t)
	questions := testdb.Questions(t, env.db, env.job.ID, 3, 10)
	candidate, app := applied(t, env, "Ana")
	ctx := context.Background()

	_, err := env.assessment.Start(ctx, candidate.ID, env.job.ID)
	require.NoError(t, err)
	env.advance(5 * time.Minute)

	result, err := env.assessment.Submit(ctx, candidate.ID, env.job.ID, dto.SubmitTestRequest{Answers: []dto.AnswerDTO{
		{QuestionID: questions[0].ID, SelectedOptionID: testdb.Correct(questions[0])},
		{QuestionID: questions[1].ID, SelectedOptionID: testdb.Correct(questions[1])},
		{QuestionID: 9999, SelectedOptionID: 1},
	}})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Score)
	assert.Equal(t, 3, result.TotalQuestions)
	assert.False(t, result.Expired)

	var answers []model.TestAnswer
	require.NoError(t, env.db.Where("application_id = ?", app.ID).Find(&answers).Error)
	assert.Len(t, answers, 2)

	stored := env.reloadApplication(t, app.ID)
	assert.Equal(t, model.TestCompleted, stored.TestStatus)
	assert.Equal(t, 2, stored.TestScore)
	assert.Equal(t, model.ApplicationPending, stored.Status)
}

func TestSubmitRecordsIncorrectAndSkipsForeignOptions(t *testing.T) {
	env := newTestEnv(t)
	questions := testdb.Questions(t, env.db, env.job.ID, 3, 10)
	candidate, app := applied(t, env, "Ana")
	ctx := context.Background()

	_, err := env.assessment.Start(ctx, candidate.ID, env.job.ID)
	require.NoError(t, err)

	result, err := env.assessment.Submit(ctx, candidate.ID, env.job.ID, dto.SubmitTestRequest{Answers: []dto.AnswerDTO{
		{QuestionID: questions[0].ID, SelectedOptionID: testdb.Wrong(questions[0])},
		{QuestionID: questions[1].ID, SelectedOptionID: testdb.Correct(questions[2])},
		{QuestionID: questions[2].ID, SelectedOptionID: testdb.Correct(questions[2])},
		{QuestionID: questions[2].ID, SelectedOptionID: testdb.Wrong(questions[2])},
	}})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Score)

	var answers []model.TestAnswer
	require.NoError(t, env.db.Where("application_id = ?", app.ID).Order("question_id").Find(&answers).Error)
	require.Len(t, answers, 2)
	assert.False(t, answers[0].IsCorrect)
	assert.True(t, answers[1].IsCorrect)
}

func TestSubmitTwiceConflicts(t *testing.T) {
	env := newTestEnv(t)
	questions := testdb.Questions(t, env.db, env.job.ID, 1, 10)
	candidate, app := applied(t, env, "Ana")
	ctx := context.Background()
	req := dto.SubmitTestRequest{Answers: []dto.AnswerDTO{{QuestionID: questions[0].ID, SelectedOptionID: testdb.Correct(questions[0])}}}

	_, err := env.assessment.Start(ctx, candidate.ID, env.job.ID)
	require.NoError(t, err)
	_, err = env.assessment.Submit(ctx, candidate.ID, env.job.ID, req)
	require.NoError(t, err)

	_, err = env.assessment.Submit(ctx, candidate.ID, env.job.ID, dto.SubmitTestRequest{})

	assert.True(t, apperror.Is(err, apperror.CodeConflict))
	assert.Equal(t, 1, env.reloadApplication(t, app.ID).TestScore)
}

func TestSubmitWithoutAttempt(t *testing.T) {
	env := newTestEnv(t)
	testdb.Questions(t, env.db, env.job.ID, 1, 10)
	candidate, _ := applied(t, env, "Ana")

	_, err := env.assessment.Submit(context.Background(), candidate.ID, env.job.ID, dto.SubmitTestRequest{})
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))
}

func TestAttemptReadRunsExpiryCheck(t *testing.T) {
	env := newTestEnv(t)
	testdb.Questions(t, env.db, env.job.ID, 2, 10)
	candidate, app := applied(t, env, "Ana")
	ctx := context.Background()

	_, err := env.assessment.Start(ctx, candidate.ID, env.job.ID)
	require.NoError(t, err)

	state, err := env.assessment.Attempt(ctx, candidate.ID, env.job.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.TestInProgress), state.TestStatus)
	assert.False(t, state.Submitted)

	env.advance(10*time.Minute + time.Second)
	state, err = env.assessment.Attempt(ctx, candidate.ID, env.job.ID)

	require.NoError(t, err)
	assert.Equal(t, string(model.TestExpired), state.TestStatus)
	assert.True(t, state.Submitted)
	assert.Equal(t, 0, state.Score)
	assert.Equal(t, model.TestExpired, env.reloadApplication(t, app.ID).TestStatus)

	_, err = env.assessment.Questions(ctx, candidate.ID, env.job.ID)
	assert.True(t, apperror.Is(err, apperror.CodeConflict))
}

func TestQuestionsRedeliversOpenAttempt(t *testing.T) {
	env := newTestEnv(t)
	testdb.Questions(t, env.db, env.job.ID, 2, 10)
	candidate, _ := applied(t, env, "Ana")
	ctx := context.Background()

	started, err := env.assessment.Start(ctx, candidate.ID, env.job.ID)
	require.NoError(t, err)
	env.advance(time.Minute)

	again, err := env.assessment.Questions(ctx, candidate.ID, env.job.ID)

	require.NoError(t, err)
	assert.Equal(t, started.ExpiresAt, again.ExpiresAt)
	assert.Len(t, again.Questions, 2)
}

func TestExpireEndsTestEarly(t *testing.T) {
	env := newTestEnv(t)
	testdb.Questions(t, env.db, env.job.ID, 2, 10)
	candidate, app := applied(t, env, "Ana")
	ctx := context.Background()

	_, err := env.assessment.Start(ctx, candidate.ID, env.job.ID)
	require.NoError(t, err)

	result, err := env.assessment.Expire(ctx, candidate.ID, env.job.ID)

	require.NoError(t, err)
	assert.True(t, result.Expired)
	assert.Equal(t, 2, result.TotalQuestions)
	assert.Equal(t, model.TestExpired, env.reloadApplication(t, app.ID).TestStatus)

	_, err = env.assessment.Expire(ctx, candidate.ID, env.job.ID)
	assert.True(t, apperror.Is(err, apperror.CodeConflict))
}

func TestSweepExpiredFinalizesOnce(t *testing.T) {
	env := newTestEnv(t)
	testdb.Questions(t, env.db, env.job.ID, 2, 10)
	late, lateApp := applied(t, env, "Ana")
	onTime, onTimeApp := applied(t, env, "Ben")
	ctx := context.Background()

	_, err := env.assessment.Start(ctx, late.ID, env.job.ID)
	require.NoError(t, err)
	env.advance(5 * time.Minute)
	_, err = env.assessment.Start(ctx, onTime.ID, env.job.ID)
	require.NoError(t, err)

	env.advance(6 * time.Minute)
	swept, err := env.assessment.SweepExpired(ctx, env.now)
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	swept, err = env.assessment.SweepExpired(ctx, env.now)
	require.NoError(t, err)
	assert.Zero(t, swept)

	assert.Equal(t, model.TestExpired, env.reloadApplication(t, lateApp.ID).TestStatus)
	assert.Equal(t, model.TestInProgress, env.reloadApplication(t, onTimeApp.ID).TestStatus)

	expired, err := env.assessment.CheckExpiry(ctx, late.ID, env.job.ID)
	require.NoError(t, err)
	assert.True(t, expired)
}

func TestCheckExpiryWithoutAttempt(t *testing.T) {
	env := newTestEnv(t)
	candidate, _ := applied(t, env, "Ana")

	expired, err := env.assessment.CheckExpiry(context.Background(), candidate.ID, env.job.ID)

	require.NoError(t, err)
	assert.False(t, expired)
}
