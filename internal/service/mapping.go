package service

import (
	"github.com/cockroachdb/errors"
	"github.com/irshad/hiring/internal/apperror"
	"github.com/irshad/hiring/internal/dto"
	"github.com/irshad/hiring/internal/model"
	"github.com/jinzhu/copier"
)

func toApplicationResponse(application *model.Application) (*dto.ApplicationResponse, error) {
	var resp dto.ApplicationResponse
	if err := copier.Copy(&resp, application); err != nil {
		return nil, apperror.Internal("error preparing application response", errors.Wrap(err, "copy application"))
	}
	return &resp, nil
}

func toInterviewResponse(interview *model.Interview) (*dto.InterviewResponse, error) {
	var resp dto.InterviewResponse
	if err := copier.Copy(&resp, interview); err != nil {
		return nil, apperror.Internal("error preparing interview response", errors.Wrap(err, "copy interview"))
	}
	return &resp, nil
}

func toApplicantDTO(application *model.Application) (dto.ApplicantDTO, error) {
	applicant := dto.ApplicantDTO{
		ApplicationID:   application.ID,
		Status:          string(application.Status),
		TestStatus:      string(application.TestStatus),
		AcceptanceScore: application.AcceptanceScore,
		SimilarityScore: application.SimilarityScore,
		RankingScore:    application.RankingScore,
		EstimatedSalary: application.EstimatedSalary,
		TestScore:       application.TestScore,
		AppliedAt:       application.CreatedAt,
	}
	if err := copier.Copy(&applicant.Candidate, &application.Candidate); err != nil {
		return dto.ApplicantDTO{}, apperror.Internal("error preparing applicant", errors.Wrap(err, "copy candidate"))
	}
	if len(application.Interviews) > 0 {
		current, err := toInterviewResponse(&application.Interviews[0])
		if err != nil {
			return dto.ApplicantDTO{}, err
		}
		applicant.CurrentInterview = current
	}
	return applicant, nil
}
