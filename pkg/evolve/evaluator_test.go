package evolve

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristicEvaluatorBaseScore(t *testing.T) {
	score, err := HeuristicEvaluator{}.Evaluate(context.Background(),
		&Candidate{Content: "hello world"}, "hello")

	require.NoError(t, err)
	// Base 0.5 plus one criteria keyword match.
	assert.InDelta(t, 0.52, score, 1e-9)
}

func TestHeuristicEvaluatorBonuses(t *testing.T) {
	content := "Step 1. First do the thing, then verify. " + strings.Repeat("pad ", 40)
	require.Greater(t, len(content), 100)

	score, err := HeuristicEvaluator{}.Evaluate(context.Background(),
		&Candidate{Content: content, ParentID: "p"}, "verify thing")

	require.NoError(t, err)
	// Base 0.5 + length 0.1 + structure 0.1 + two keywords 0.04 + lineage 0.05.
	assert.InDelta(t, 0.79, score, 1e-9)
}

func TestHeuristicEvaluatorCapsAtOne(t *testing.T) {
	words := make([]string, 0, 40)
	for i := 0; i < 20; i++ {
		words = append(words, "step", "first")
	}
	content := "step 1. first then " + strings.Repeat("filler words here to reach length ", 20)
	criteria := strings.Join(words, " ")

	score, err := HeuristicEvaluator{}.Evaluate(context.Background(),
		&Candidate{Content: content, ParentID: "p"}, criteria)

	require.NoError(t, err)
	assert.LessOrEqual(t, score, 1.0)
}

func TestHeuristicEvaluatorHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := HeuristicEvaluator{}.Evaluate(ctx, &Candidate{Content: "x"}, "")
	assert.Error(t, err)
}
