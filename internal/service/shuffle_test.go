package service

import (
	"math/rand/v2"
	"testing"

	"github.com/irshad/hiring/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bank() []model.Question {
	return []model.Question{
		{ID: 1, Text: "q1", Options: []model.Option{{ID: 11, Text: "a", IsCorrect: true}, {ID: 12, Text: "b"}, {ID: 13, Text: "c"}}},
		{ID: 2, Text: "q2", Options: []model.Option{{ID: 21, Text: "a"}, {ID: 22, Text: "b", IsCorrect: true}}},
		{ID: 3, Text: "q3", Options: []model.Option{{ID: 31, Text: "a"}, {ID: 32, Text: "b", IsCorrect: true}}},
	}
}

func TestShufflerKeepsEveryQuestionAndOption(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	s := &Shuffler{intN: r.IntN}

	got := s.Questions(bank())

	require.Len(t, got, 3)
	seen := map[uint][]uint{}
	for _, q := range got {
		for _, o := range q.Options {
			seen[q.ID] = append(seen[q.ID], o.ID)
		}
	}
	assert.ElementsMatch(t, []uint{11, 12, 13}, seen[1])
	assert.ElementsMatch(t, []uint{21, 22}, seen[2])
	assert.ElementsMatch(t, []uint{31, 32}, seen[3])
}

func TestShufflerIsDrivenByRandomSource(t *testing.T) {
	// Always picking index 0 turns [1 2 3] into [2 3 1].
	s := &Shuffler{intN: func(int) int { return 0 }}

	got := s.Questions(bank())

	assert.Equal(t, []uint{2, 3, 1}, []uint{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, uint(12), got[2].Options[0].ID)
}

func TestShufflerDoesNotTouchSource(t *testing.T) {
	src := bank()
	s := &Shuffler{intN: func(n int) int { return 0 }}

	s.Questions(src)

	assert.Equal(t, uint(1), src[0].ID)
	assert.Equal(t, uint(11), src[0].Options[0].ID)
}
