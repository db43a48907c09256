// Package evolve implements an island-model evolutionary search over text
// candidates: mutation and crossover operators, generation-stepped selection
// with elitism, ring migration, and a fitness/novelty pareto front.
//
// The engine never interprets candidate content and never calls a language
// model; fitness scoring and richer mutation strategies are supplied by the
// caller through the Evaluator and MutationStrategy interfaces.
package evolve

import (
	"math/rand"

	"github.com/google/uuid"
)

// MutationType identifies how a candidate was derived from its parent.
type MutationType string

const (
	MutationPoint     MutationType = "point"
	MutationCrossover MutationType = "crossover"
)

// Fitness is an explicit tri-state score. The reference design overloaded the
// numeric 0.0 as both "unevaluated" and "worst possible score"; keeping the
// two apart means a legitimately bad candidate is never silently re-scored.
type Fitness struct {
	Evaluated bool    `json:"evaluated"`
	Score     float64 `json:"score"`
}

// Scored builds an evaluated fitness value.
func Scored(score float64) Fitness {
	return Fitness{Evaluated: true, Score: score}
}

// Candidate is one evolvable unit of content. Immutable once created except
// for Fitness and Novelty, which are each written once per evaluation.
type Candidate struct {
	ID           string       `json:"id"`
	Content      string       `json:"content"`
	Fitness      Fitness      `json:"fitness"`
	Novelty      float64      `json:"novelty"`
	Generation   int          `json:"generation"`
	ParentID     string       `json:"parent_id,omitempty"`
	MutationType MutationType `json:"mutation_type,omitempty"`
}

// Clone creates a deep copy of a candidate.
func (c *Candidate) Clone() *Candidate {
	cp := *c
	return &cp
}

// newCandidateID draws a UUID from the engine RNG so that a fixed random seed
// yields identical candidate ids across runs.
func newCandidateID(rng *rand.Rand) string {
	return uuid.Must(uuid.NewRandomFromReader(rng)).String()
}
