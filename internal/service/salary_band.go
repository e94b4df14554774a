package service

import "math"

// Salary bands keyed on the prediction score.
const (
	lowScoreThreshold  = 0.4
	midScoreThreshold  = 0.7
	lowScoreFactor     = 0.70
	midScoreFactor     = 0.85
	salaryRoundingUnit = 10
)

type SalaryBander interface {
	Band(rawSalary, score float64) int
}

type salaryBander struct{}

func NewSalaryBander() SalaryBander {
	return salaryBander{}
}

// Band scales rawSalary by the band of score and floors to a multiple of 10.
func (salaryBander) Band(rawSalary, score float64) int {
	factor := 1.0
	switch {
	case score < lowScoreThreshold:
		factor = lowScoreFactor
	case score < midScoreThreshold:
		factor = midScoreFactor
	}
	// The epsilon absorbs binary error in the factors, e.g. 2000*0.85.
	units := math.Floor(rawSalary*factor/salaryRoundingUnit + 1e-9)
	if units < 0 {
		return 0
	}
	return int(units) * salaryRoundingUnit
}
