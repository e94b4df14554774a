package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// contentGenerator is the part of *genai.GenerativeModel the predictor uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiPredictor asks a Gemini model for the acceptance score and salary estimate.
type GeminiPredictor struct {
	model contentGenerator
}

func NewGeminiPredictor(ctx context.Context, apiKey, modelName string) (*GeminiPredictor, *genai.Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, nil, errors.New("GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create gemini client")
	}
	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0)
	return &GeminiPredictor{model: model}, client, nil
}

type geminiPrediction struct {
	AcceptanceScore *float64 `json:"acceptance_score"`
	SimilarityScore *float64 `json:"similarity_score"`
	EstimatedSalary *float64 `json:"estimated_salary"`
}

func (p *GeminiPredictor) Predict(ctx context.Context, req Request) (Prediction, error) {
	resp, err := p.model.GenerateContent(ctx, genai.Text(buildPrompt(req)))
	if err != nil {
		log.Error().Err(err).Str("jobTitle", req.JobTitle).Msg("Gemini API error during prediction")
		return Prediction{}, errors.Wrap(err, "gemini prediction failed")
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return Prediction{}, errors.New("gemini returned no content")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}

	var parsed geminiPrediction
	if err := json.Unmarshal([]byte(stripCodeFence(text.String())), &parsed); err != nil {
		log.Warn().Str("raw", text.String()).Msg("Gemini response is not valid JSON")
		return Prediction{}, errors.Wrap(err, "decode gemini prediction")
	}
	if parsed.EstimatedSalary == nil {
		return Prediction{}, errors.New("gemini prediction has no estimated_salary")
	}

	return Prediction{
		AcceptanceScore: clampScore(parsed.AcceptanceScore),
		SimilarityScore: clampScore(parsed.SimilarityScore),
		EstimatedSalary: *parsed.EstimatedSalary,
	}, nil
}

func buildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("You are a recruitment analyst. Estimate how well the candidate fits the job.\n\n")
	fmt.Fprintf(&b, "Job title: %s\n", req.JobTitle)
	fmt.Fprintf(&b, "Job description: %s\n", req.JobDescription)
	fmt.Fprintf(&b, "Required skills: %s\n", strings.Join(req.JobRequiredSkills, ", "))
	fmt.Fprintf(&b, "Required experience (years): %.1f\n\n", req.JobRequiredExperience)
	fmt.Fprintf(&b, "Candidate skills: %s\n", strings.Join(req.CandidateSkills, ", "))
	fmt.Fprintf(&b, "Candidate experience (years): %.1f\n", req.CandidateExperience)
	fmt.Fprintf(&b, "Candidate education: %s\n\n", strings.Join(req.CandidateEducation, ", "))
	b.WriteString(`Respond with a single JSON object and nothing else:
{"acceptance_score": <0.0-1.0>, "similarity_score": <0.0-1.0>, "estimated_salary": <yearly salary as a number>}`)
	return b.String()
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func clampScore(score *float64) *float64 {
	if score == nil {
		return nil
	}
	v := *score
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return &v
}
