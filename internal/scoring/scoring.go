package scoring

import (
	"context"
	"fmt"
)

// Mode selects which predicted value drives ranking and salary banding.
type Mode string

const (
	ModeAcceptance Mode = "acceptance"
	ModeSimilarity Mode = "similarity"
)

func ParseMode(s string) (Mode, error) {
	switch mode := Mode(s); mode {
	case ModeAcceptance, ModeSimilarity:
		return mode, nil
	case "":
		return ModeAcceptance, nil
	default:
		return "", fmt.Errorf("unknown scoring mode %q", s)
	}
}

// Request describes one candidate/job pairing to be scored.
type Request struct {
	CandidateSkills       []string
	CandidateExperience   float64
	CandidateEducation    []string
	JobTitle              string
	JobDescription        string
	JobRequiredSkills     []string
	JobRequiredExperience float64
}

// Prediction is the raw answer of the prediction service. Scores are in [0, 1]
// and absent when the service did not return them.
type Prediction struct {
	AcceptanceScore *float64
	SimilarityScore *float64
	EstimatedSalary float64
}

// Score returns the value used for ranking and banding under mode. Only the
// mode's own score counts; a missing one is 0.
func (p Prediction) Score(mode Mode) float64 {
	score := p.AcceptanceScore
	if mode == ModeSimilarity {
		score = p.SimilarityScore
	}
	if score == nil {
		return 0
	}
	return *score
}

// Predictor is the score adapter consulted once per apply. Implementations must
// return an error rather than a default prediction when the backend fails.
type Predictor interface {
	Predict(ctx context.Context, req Request) (Prediction, error)
}
