package service

import (
	"math/rand/v2"

	"github.com/irshad/hiring/internal/dto"
	"github.com/irshad/hiring/internal/model"
)

// Shuffler turns a question bank into a candidate-facing payload. Every call
// produces a fresh order; nothing about the order is stored.
type Shuffler struct {
	intN func(n int) int
}

func NewShuffler() *Shuffler {
	return &Shuffler{intN: rand.IntN}
}

// Questions copies questions into DTOs without correctness flags and shuffles both
// the questions and each question's options.
func (s *Shuffler) Questions(questions []model.Question) []dto.QuestionDTO {
	out := make([]dto.QuestionDTO, len(questions))
	for i, q := range questions {
		options := make([]dto.OptionDTO, len(q.Options))
		for j, o := range q.Options {
			options[j] = dto.OptionDTO{ID: o.ID, Text: o.Text}
		}
		shuffle(s.intN, options)
		out[i] = dto.QuestionDTO{ID: q.ID, Text: q.Text, Options: options}
	}
	shuffle(s.intN, out)
	return out
}

// shuffle is a Fisher-Yates shuffle driven by intN.
func shuffle[T any](intN func(int) int, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := intN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
