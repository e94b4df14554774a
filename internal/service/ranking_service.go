package service

import (
	"context"
	"sort"

	"github.com/irshad/hiring/internal/apperror"
	"github.com/irshad/hiring/internal/dto"
	"github.com/irshad/hiring/internal/model"
	"github.com/irshad/hiring/internal/repository"
	"github.com/rs/zerolog/log"
)

type SortKey string

const (
	SortByRanking   SortKey = "ranking"
	SortByTestScore SortKey = "test_score"
)

func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(s); key {
	case "", SortByRanking:
		return SortByRanking, nil
	case SortByTestScore:
		return key, nil
	default:
		return "", apperror.Newf(apperror.CodeValidation, "unknown sort %q", s)
	}
}

// ExpiryChecker finalizes a pair's attempt if it ran out of time.
type ExpiryChecker interface {
	CheckExpiry(ctx context.Context, candidateID, jobID uint) (bool, error)
}

// settleExpiry runs the expiry check for an application whose test is in
// progress and patches the loaded row to match what the check stored.
func settleExpiry(ctx context.Context, checker ExpiryChecker, application *model.Application) error {
	if application.TestStatus != model.TestInProgress {
		return nil
	}
	expired, err := checker.CheckExpiry(ctx, application.CandidateID, application.JobID)
	if err != nil {
		return err
	}
	if expired {
		application.TestStatus = model.TestExpired
		application.TestScore = 0
	}
	return nil
}

type RankingService interface {
	RankApplicants(ctx context.Context, companyID, jobID uint, key SortKey) ([]dto.ApplicantDTO, error)
}

type rankingService struct {
	jobRepo repository.JobRepository
	appRepo repository.ApplicationRepository
	checker ExpiryChecker
}

func NewRankingService(jobRepo repository.JobRepository, appRepo repository.ApplicationRepository, checker ExpiryChecker) RankingService {
	return &rankingService{jobRepo: jobRepo, appRepo: appRepo, checker: checker}
}

func (s *rankingService) RankApplicants(ctx context.Context, companyID, jobID uint, key SortKey) ([]dto.ApplicantDTO, error) {
	if _, err := ownedJob(ctx, s.jobRepo, companyID, jobID); err != nil {
		return nil, err
	}

	applications, err := s.appRepo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	for i := range applications {
		if err := settleExpiry(ctx, s.checker, &applications[i]); err != nil {
			return nil, err
		}
	}

	SortApplications(applications, key)

	resp := make([]dto.ApplicantDTO, 0, len(applications))
	for i := range applications {
		applicant, err := toApplicantDTO(&applications[i])
		if err != nil {
			return nil, err
		}
		resp = append(resp, applicant)
	}
	log.Debug().Uint("jobID", jobID).Int("count", len(resp)).Str("sort", string(key)).Msg("Applicants ranked")
	return resp, nil
}

// SortApplications orders by the key descending, then by creation time and id ascending.
func SortApplications(applications []model.Application, key SortKey) {
	sort.SliceStable(applications, func(i, j int) bool {
		a, b := applications[i], applications[j]
		if key == SortByTestScore {
			if a.TestScore != b.TestScore {
				return a.TestScore > b.TestScore
			}
		} else if a.RankingScore != b.RankingScore {
			return a.RankingScore > b.RankingScore
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// ownedJob loads the job and checks it belongs to the company.
func ownedJob(ctx context.Context, jobRepo repository.JobRepository, companyID, jobID uint) (*model.Job, error) {
	job, err := jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.CompanyID != companyID {
		log.Warn().Uint("companyID", companyID).Uint("jobID", jobID).Msg("Company does not own job")
		return nil, apperror.Forbidden("you do not own this job")
	}
	return job, nil
}
