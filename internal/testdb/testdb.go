// Package testdb opens migrated in-memory SQLite databases and seeds fixtures for tests.
package testdb

import (
	"fmt"
	"strings"
	"testing"

	"github.com/irshad/hiring/database"
	"github.com/irshad/hiring/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a fresh database private to t. A single connection keeps the
// in-memory database alive and serializes transactions.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func Company(t *testing.T, db *gorm.DB, name string) *model.Company {
	t.Helper()
	company := &model.Company{Name: name, Email: strings.ToLower(strings.ReplaceAll(name, " ", "")) + "@corp.test"}
	require.NoError(t, db.Create(company).Error)
	return company
}

// Candidate creates a candidate with one resume.
func Candidate(t *testing.T, db *gorm.DB, first string) (*model.Candidate, *model.Resume) {
	t.Helper()
	candidate := &model.Candidate{FirstName: first, LastName: "Tester", Email: strings.ToLower(first) + "@mail.test"}
	require.NoError(t, db.Create(candidate).Error)

	resume := &model.Resume{
		CandidateID:     candidate.ID,
		FilePath:        "/resumes/" + strings.ToLower(first) + ".pdf",
		Skills:          datatypes.JSONSlice[string]{"go", "sql"},
		Education:       datatypes.JSONSlice[string]{"Bachelor"},
		ExperienceYears: 3,
	}
	require.NoError(t, db.Create(resume).Error)
	return candidate, resume
}

func Job(t *testing.T, db *gorm.DB, companyID uint, title string) *model.Job {
	t.Helper()
	job := &model.Job{
		CompanyID:          companyID,
		Title:              title,
		Description:        "Build and run backend services",
		RequiredSkills:     datatypes.JSONSlice[string]{"go"},
		RequiredExperience: 2,
	}
	require.NoError(t, db.Create(job).Error)
	return job
}

// Questions adds n questions to the job, each with options "right" (correct)
// and "wrong". The first question sets the test duration.
func Questions(t *testing.T, db *gorm.DB, jobID uint, n, durationMinutes int) []model.Question {
	t.Helper()
	questions := make([]model.Question, 0, n)
	for i := 0; i < n; i++ {
		q := model.Question{
			JobID: jobID,
			Text:  fmt.Sprintf("Question %d", i+1),
			Options: []model.Option{
				{Text: "right", IsCorrect: true},
				{Text: "wrong"},
			},
		}
		if i == 0 {
			q.TestDurationMinutes = durationMinutes
		}
		require.NoError(t, db.Create(&q).Error)
		questions = append(questions, q)
	}
	return questions
}

// Correct returns the id of the question's correct option.
func Correct(q model.Question) uint {
	for _, o := range q.Options {
		if o.IsCorrect {
			return o.ID
		}
	}
	return 0
}

// Wrong returns the id of one incorrect option.
func Wrong(q model.Question) uint {
	for _, o := range q.Options {
		if !o.IsCorrect {
			return o.ID
		}
	}
	return 0
}
