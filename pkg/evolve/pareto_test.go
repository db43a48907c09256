package evolve

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scored(id, content string, fitness float64) *Candidate {
	return &Candidate{ID: id, Content: content, Fitness: Scored(fitness)}
}

func TestParetoFrontSize(t *testing.T) {
	var small []*Candidate
	for i := 0; i < 4; i++ {
		small = append(small, scored(fmt.Sprintf("c%d", i), fmt.Sprintf("content %d", i), 0.5))
	}
	assert.Len(t, ParetoFront(small), 4)

	var large []*Candidate
	for i := 0; i < 25; i++ {
		large = append(large, scored(fmt.Sprintf("c%d", i), fmt.Sprintf("content %d", i), 0.5))
	}
	assert.Len(t, ParetoFront(large), 10)
}

func TestParetoFrontDoesNotMutateInputs(t *testing.T) {
	c := scored("c0", "alpha beta", 0.7)
	ParetoFront([]*Candidate{c, scored("c1", "gamma delta", 0.6)})

	assert.Zero(t, c.Novelty, "novelty must be written to the snapshot, not the island")
}

func TestNoveltyOfLoneCandidate(t *testing.T) {
	front := ParetoFront([]*Candidate{scored("only", "anything at all", 0.3)})

	require.Len(t, front, 1)
	assert.Equal(t, 1.0, front[0].Novelty)
}

func TestNoveltyPenalizesDuplicates(t *testing.T) {
	candidates := []*Candidate{
		scored("a", "the quick brown fox", 0.5),
		scored("b", "the quick brown fox", 0.5),
		scored("c", "entirely different words here", 0.5),
	}

	front := ParetoFront(candidates)
	require.Len(t, front, 3)

	byID := make(map[string]*Candidate)
	for _, c := range front {
		byID[c.ID] = c
	}

	// The duplicates overlap fully with each other but not with c.
	assert.InDelta(t, 0.5, byID["a"].Novelty, 1e-9)
	assert.InDelta(t, 0.5, byID["b"].Novelty, 1e-9)
	assert.Equal(t, 1.0, byID["c"].Novelty)
}

func TestParetoFrontRankedByCombinedScore(t *testing.T) {
	candidates := []*Candidate{
		scored("low", "w0 w1 w2", 0.2),
		scored("high", "w3 w4 w5", 0.9),
		scored("mid", "w6 w7 w8", 0.5),
	}

	front := ParetoFront(candidates)
	require.Len(t, front, 3)
	assert.Equal(t, "high", front[0].ID)
	assert.Equal(t, "mid", front[1].ID)
	assert.Equal(t, "low", front[2].ID)
}

func TestParetoFrontExcludesDominatedTail(t *testing.T) {
	// Twelve candidates with unique vocabularies: ten strong, two weak
	// duplicates that score lowest on both axes and must fall off the front.
	var candidates []*Candidate
	for i := 0; i < 10; i++ {
		candidates = append(candidates,
			scored(fmt.Sprintf("strong%d", i), fmt.Sprintf("unique vocab item%d", i), 0.8))
	}
	candidates = append(candidates,
		scored("weak1", "unique vocab item0", 0.1),
		scored("weak2", "unique vocab item1", 0.1),
	)

	front := ParetoFront(candidates)
	require.Len(t, front, 10)

	for _, c := range front {
		assert.NotContains(t, c.ID, "weak")
	}

	// No front member strictly dominates another on both fitness and novelty.
	for _, a := range front {
		for _, b := range front {
			dominated := a.Fitness.Score < b.Fitness.Score && a.Novelty < b.Novelty
			assert.False(t, dominated, "%s is dominated by %s", a.ID, b.ID)
		}
	}
}
