package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/irshad/hiring/internal/model"
	"github.com/irshad/hiring/internal/notify"
	"github.com/irshad/hiring/internal/repository"
	"github.com/irshad/hiring/internal/scoring"
	"github.com/irshad/hiring/internal/testdb"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakePredictor struct {
	mu          sync.Mutex
	predictions []scoring.Prediction
	err         error
	calls       int
}

func (f *fakePredictor) Predict(_ context.Context, _ scoring.Request) (scoring.Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return scoring.Prediction{}, f.err
	}
	if len(f.predictions) == 0 {
		return scoring.Prediction{EstimatedSalary: 1000}, nil
	}
	p := f.predictions[0]
	if len(f.predictions) > 1 {
		f.predictions = f.predictions[1:]
	}
	return p, nil
}

func acceptance(score, salary float64) scoring.Prediction {
	return scoring.Prediction{AcceptanceScore: &score, EstimatedSalary: salary}
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []notify.Message
	err      error
}

func (f *fakeNotifier) Notify(_ context.Context, msg notify.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

var errPredictorDown = errors.New("dial tcp 127.0.0.1:5000: connection refused")

type testEnv struct {
	db        *gorm.DB
	now       time.Time
	predictor *fakePredictor
	notifier  *fakeNotifier

	applications ApplicationService
	assessment   *assessmentService
	ranking      RankingService
	interviews   *interviewService
	questions    QuestionService

	company *model.Company
	job     *model.Job
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testdb.Open(t)
	env := &testEnv{
		db:        db,
		now:       time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		predictor: &fakePredictor{},
		notifier:  &fakeNotifier{},
	}
	clock := func() time.Time { return env.now }

	jobRepo := repository.NewJobRepository(db)
	candidateRepo := repository.NewCandidateRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	attemptRepo := repository.NewExamAttemptRepository(db)
	answerRepo := repository.NewTestAnswerRepository(db)
	interviewRepo := repository.NewInterviewRepository(db)
	questionRepo := repository.NewQuestionRepository(db)

	env.assessment = NewAssessmentService(db, jobRepo, appRepo, attemptRepo, answerRepo, NewShuffler(), 10*time.Minute).(*assessmentService)
	env.assessment.clock = clock

	env.applications = NewApplicationService(db, jobRepo, candidateRepo, appRepo, env.predictor, scoring.ModeAcceptance, NewSalaryBander(), env.assessment)

	env.ranking = NewRankingService(jobRepo, appRepo, env.assessment)

	env.interviews = NewInterviewService(jobRepo, appRepo, interviewRepo, env.notifier).(*interviewService)
	env.interviews.clock = clock

	env.questions = NewQuestionService(jobRepo, questionRepo)

	env.company = testdb.Company(t, db, "Acme")
	env.job = testdb.Job(t, db, env.company.ID, "Backend Engineer")
	return env
}

func (e *testEnv) advance(d time.Duration) {
	e.now = e.now.Add(d)
}

func (e *testEnv) countApplications(t *testing.T, candidateID, jobID uint) (total, active int64) {
	t.Helper()
	require.NoError(t, e.db.Model(&model.Application{}).
		Where("candidate_id = ? AND job_id = ?", candidateID, jobID).Count(&total).Error)
	require.NoError(t, e.db.Model(&model.Application{}).
		Where("candidate_id = ? AND job_id = ? AND status IN ?", candidateID, jobID,
			[]string{string(model.ApplicationPending), string(model.ApplicationAccepted)}).
		Count(&active).Error)
	return total, active
}

func (e *testEnv) reloadApplication(t *testing.T, id uint) model.Application {
	t.Helper()
	var application model.Application
	require.NoError(t, e.db.First(&application, id).Error)
	return application
}

func (e *testEnv) loadAttempt(t *testing.T, candidateID uint) model.ExamAttempt {
	t.Helper()
	var attempt model.ExamAttempt
	require.NoError(t, e.db.Where("candidate_id = ? AND job_id = ?", candidateID, e.job.ID).First(&attempt).Error)
	return attempt
}
