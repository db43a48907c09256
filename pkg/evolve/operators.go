package evolve

import (
	"math/rand"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MutationStrategy is one named content transformation. Strategies must be
// deterministic given a fixed RNG: they draw all randomness from the supplied
// source and have no other side effects.
//
// The built-in set performs cheap structural edits. Richer deployments plug
// in their own strategies (an LLM-driven rewrite satisfies the same
// interface) without touching the engine.
type MutationStrategy interface {
	Name() string
	Apply(rng *rand.Rand, content string) string
}

type normalizeWhitespace struct{}

func (normalizeWhitespace) Name() string { return "normalize_whitespace" }

func (normalizeWhitespace) Apply(_ *rand.Rand, content string) string {
	return strings.ReplaceAll(norm.NFC.String(content), "  ", " ")
}

type trimEdges struct{}

func (trimEdges) Name() string { return "trim" }

func (trimEdges) Apply(_ *rand.Rand, content string) string {
	return strings.TrimSpace(content)
}

type appendNewline struct{}

func (appendNewline) Name() string { return "append_newline" }

func (appendNewline) Apply(_ *rand.Rand, content string) string {
	return content + "\n"
}

type swapWords struct{}

func (swapWords) Name() string { return "swap_words" }

func (swapWords) Apply(rng *rand.Rand, content string) string {
	words := strings.Fields(content)
	if len(words) < 2 {
		return content
	}
	i := rng.Intn(len(words))
	j := rng.Intn(len(words) - 1)
	if j >= i {
		j++
	}
	words[i], words[j] = words[j], words[i]
	return strings.Join(words, " ")
}

type insertPhrase struct{}

func (insertPhrase) Name() string { return "insert_phrase" }

var connectivePhrases = []string{
	"Additionally,",
	"Furthermore,",
	"Moreover,",
	"In particular,",
	"Specifically,",
}

func (insertPhrase) Apply(rng *rand.Rand, content string) string {
	words := strings.Fields(content)
	if len(words) == 0 {
		return content
	}
	pos := rng.Intn(len(words) + 1)
	phrase := connectivePhrases[rng.Intn(len(connectivePhrases))]

	out := make([]string, 0, len(words)+1)
	out = append(out, words[:pos]...)
	out = append(out, phrase)
	out = append(out, words[pos:]...)
	return strings.Join(out, " ")
}

// DefaultStrategies returns the closed built-in operator set.
func DefaultStrategies() []MutationStrategy {
	return []MutationStrategy{
		normalizeWhitespace{},
		trimEdges{},
		appendNewline{},
		swapWords{},
		insertPhrase{},
	}
}

// OperatorSet produces new candidates from one or two parents. Strategy
// selection is a weighted-random index over a fixed strategy set; uniform
// weights reproduce the reference behavior.
type OperatorSet struct {
	strategies []MutationStrategy
	weights    []float64
	total      float64
	rng        *rand.Rand
}

// NewOperatorSet builds an operator set with uniform strategy weights.
func NewOperatorSet(rng *rand.Rand, strategies ...MutationStrategy) *OperatorSet {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	weights := make([]float64, len(strategies))
	for i := range weights {
		weights[i] = 1.0
	}
	return &OperatorSet{
		strategies: strategies,
		weights:    weights,
		total:      float64(len(strategies)),
		rng:        rng,
	}
}

// SetWeight adjusts the selection weight of a named strategy.
func (o *OperatorSet) SetWeight(name string, weight float64) {
	for i, s := range o.strategies {
		if s.Name() == name {
			o.total += weight - o.weights[i]
			o.weights[i] = weight
			return
		}
	}
}

func (o *OperatorSet) pickStrategy() MutationStrategy {
	r := o.rng.Float64() * o.total
	for i, w := range o.weights {
		r -= w
		if r < 0 {
			return o.strategies[i]
		}
	}
	return o.strategies[len(o.strategies)-1]
}

// Mutate creates a point-mutated child of the parent at the given generation.
func (o *OperatorSet) Mutate(parent *Candidate, generation int) *Candidate {
	strategy := o.pickStrategy()
	return &Candidate{
		ID:           newCandidateID(o.rng),
		Content:      strategy.Apply(o.rng, parent.Content),
		Generation:   generation,
		ParentID:     parent.ID,
		MutationType: MutationPoint,
	}
}

// Crossover splits each parent at the midpoint of its word sequence and
// concatenates the first half of parent 1 with the second half of parent 2.
// Lineage is recorded against parent 1.
func (o *OperatorSet) Crossover(parent1, parent2 *Candidate, generation int) *Candidate {
	words1 := strings.Fields(parent1.Content)
	words2 := strings.Fields(parent2.Content)

	point := len(words1)
	if len(words2) < point {
		point = len(words2)
	}
	point /= 2

	child := make([]string, 0, point+len(words2))
	child = append(child, words1[:point]...)
	child = append(child, words2[point:]...)

	return &Candidate{
		ID:           newCandidateID(o.rng),
		Content:      strings.Join(child, " "),
		Generation:   generation,
		ParentID:     parent1.ID,
		MutationType: MutationCrossover,
	}
}
