package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
)

const (
	acceptancePath = "/predict-acceptance"
	salaryPath     = "/predict-salary"

	defaultExperienceYears = 1
)

var defaultEducation = []string{"Bachelor"}

// HTTPPredictor talks to the prediction service over its JSON API.
type HTTPPredictor struct {
	baseURL    string
	mode       Mode
	httpClient *http.Client
}

func NewHTTPPredictor(baseURL string, mode Mode, httpClient *http.Client) *HTTPPredictor {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPPredictor{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		mode:       mode,
		httpClient: httpClient,
	}
}

type acceptanceRequest struct {
	CandidateSkills   []string `json:"candidate_skills"`
	JobTitle          string   `json:"job_title"`
	JobRequiredSkills []string `json:"job_required_skills"`
	JobDescription    string   `json:"job_description"`
}

type acceptanceResponse struct {
	AcceptanceScore *float64 `json:"acceptance_score"`
}

type salaryRequest struct {
	CandidateSkills       []string `json:"candidate_skills"`
	CandidateExperience   float64  `json:"candidate_experience"`
	CandidateEducation    []string `json:"candidate_education"`
	JobTitle              string   `json:"job_title"`
	JobRequiredSkills     []string `json:"job_required_skills"`
	JobRequiredExperience float64  `json:"job_required_experience"`
}

type salaryResponse struct {
	EstimatedSalary *float64 `json:"estimated_salary"`
	SimilarityScore *float64 `json:"similarity_score"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Predict asks for the acceptance score (acceptance mode only) and the salary estimate.
// Either call failing fails the prediction.
func (p *HTTPPredictor) Predict(ctx context.Context, req Request) (Prediction, error) {
	if p.baseURL == "" {
		return Prediction{}, errors.New("prediction service base url is not configured")
	}

	var prediction Prediction
	if p.mode != ModeSimilarity {
		var acceptance acceptanceResponse
		err := p.post(ctx, acceptancePath, acceptanceRequest{
			CandidateSkills:   nonNil(req.CandidateSkills),
			JobTitle:          req.JobTitle,
			JobRequiredSkills: nonNil(req.JobRequiredSkills),
			JobDescription:    req.JobDescription,
		}, &acceptance)
		if err != nil {
			return Prediction{}, err
		}
		prediction.AcceptanceScore = acceptance.AcceptanceScore
	}

	experience := req.CandidateExperience
	if experience <= 0 {
		experience = defaultExperienceYears
	}
	education := req.CandidateEducation
	if len(education) == 0 {
		education = defaultEducation
	}

	var salary salaryResponse
	err := p.post(ctx, salaryPath, salaryRequest{
		CandidateSkills:       nonNil(req.CandidateSkills),
		CandidateExperience:   experience,
		CandidateEducation:    education,
		JobTitle:              req.JobTitle,
		JobRequiredSkills:     nonNil(req.JobRequiredSkills),
		JobRequiredExperience: req.JobRequiredExperience,
	}, &salary)
	if err != nil {
		return Prediction{}, err
	}
	if salary.EstimatedSalary == nil {
		return Prediction{}, errors.New("prediction service returned no estimated_salary")
	}
	prediction.EstimatedSalary = *salary.EstimatedSalary
	prediction.SimilarityScore = salary.SimilarityScore

	log.Debug().
		Str("jobTitle", req.JobTitle).
		Float64("estimatedSalary", prediction.EstimatedSalary).
		Float64("score", prediction.Score(p.mode)).
		Msg("Prediction received")
	return prediction, nil
}

func (p *HTTPPredictor) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(err, "encode %s request", path)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "create %s request", path)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "send %s request", path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "read %s response", path)
	}
	if resp.StatusCode != http.StatusOK {
		return statusError(path, resp.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "decode %s response", path)
	}
	return nil
}

func statusError(path string, status int, raw []byte) error {
	var parsed errorResponse
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error != "" {
		return fmt.Errorf("prediction service %s: status %d: %s", path, status, parsed.Error)
	}
	message := strings.TrimSpace(string(raw))
	if message == "" {
		return fmt.Errorf("prediction service %s: status %d", path, status)
	}
	return fmt.Errorf("prediction service %s: status %d: %s", path, status, message)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
