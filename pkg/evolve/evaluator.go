package evolve

import (
	"context"
	"strings"
)

// Evaluator scores a candidate against free-form evaluation criteria. The
// engine treats it as a black box: it must be pure and is called at most once
// per candidate. Scores are clamped to [0, 1] by the engine.
type Evaluator interface {
	Evaluate(ctx context.Context, candidate *Candidate, criteria string) (float64, error)
}

// EvaluatorFunc adapts a plain function to the Evaluator interface.
type EvaluatorFunc func(ctx context.Context, candidate *Candidate, criteria string) (float64, error)

func (f EvaluatorFunc) Evaluate(ctx context.Context, candidate *Candidate, criteria string) (float64, error) {
	return f(ctx, candidate, criteria)
}

// HeuristicEvaluator is the built-in criteria-keyword scorer. It gives a base
// score of 0.5 plus bonuses for length, structural markers, criteria keyword
// matches, and lineage. Deployments with a real quality signal supply their
// own Evaluator instead.
type HeuristicEvaluator struct{}

var structureMarkers = []string{"step", "1.", "first", "then"}

func (HeuristicEvaluator) Evaluate(ctx context.Context, candidate *Candidate, criteria string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	score := 0.5
	content := strings.ToLower(candidate.Content)

	// Length bonus: not too short, not too long
	length := len(content)
	if length > 100 && length < 5000 {
		score += 0.1
	}
	if length > 500 && length < 2000 {
		score += 0.1
	}

	for _, marker := range structureMarkers {
		if strings.Contains(content, marker) {
			score += 0.1
			break
		}
	}

	// Criteria keyword matching
	matches := 0
	for _, word := range strings.Fields(strings.ToLower(criteria)) {
		if strings.Contains(content, word) {
			matches++
		}
	}
	bonus := float64(matches) * 0.02
	if bonus > 0.2 {
		bonus = 0.2
	}
	score += bonus

	// Small bonus for being a mutation rather than the raw seed
	if candidate.ParentID != "" {
		score += 0.05
	}

	if score > 1.0 {
		score = 1.0
	}
	return score, nil
}
