package evolve

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOperators(seed int64) *OperatorSet {
	return NewOperatorSet(rand.New(rand.NewSource(seed)))
}

func TestMutateSetsLineage(t *testing.T) {
	ops := newTestOperators(1)
	parent := &Candidate{ID: "parent", Content: "hello world how are you"}

	child := ops.Mutate(parent, 3)

	assert.NotEmpty(t, child.ID)
	assert.NotEqual(t, parent.ID, child.ID)
	assert.Equal(t, "parent", child.ParentID)
	assert.Equal(t, MutationPoint, child.MutationType)
	assert.Equal(t, 3, child.Generation)
	assert.False(t, child.Fitness.Evaluated)
}

func TestCrossoverMidpointSplit(t *testing.T) {
	ops := newTestOperators(1)
	p1 := &Candidate{ID: "p1", Content: "a b c d"}
	p2 := &Candidate{ID: "p2", Content: "e f g h"}

	child := ops.Crossover(p1, p2, 2)

	assert.Equal(t, "a b g h", child.Content)
	assert.Equal(t, "p1", child.ParentID)
	assert.Equal(t, MutationCrossover, child.MutationType)
	assert.Equal(t, 2, child.Generation)
}

func TestCrossoverUnevenParents(t *testing.T) {
	ops := newTestOperators(1)
	p1 := &Candidate{ID: "p1", Content: "a b c d e f"}
	p2 := &Candidate{ID: "p2", Content: "x y"}

	// Split point is the midpoint of the shorter word sequence.
	child := ops.Crossover(p1, p2, 1)
	assert.Equal(t, "a y", child.Content)
}

func TestOperatorsDeterministicForFixedSeed(t *testing.T) {
	parent := &Candidate{ID: "parent", Content: "one two three four five six seven"}

	a := newTestOperators(42)
	b := newTestOperators(42)

	for i := 0; i < 20; i++ {
		ca := a.Mutate(parent, i)
		cb := b.Mutate(parent, i)
		require.Equal(t, ca.Content, cb.Content)
		require.Equal(t, ca.ID, cb.ID)
	}
}

func TestMutationStrategies(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	t.Run("normalize_whitespace", func(t *testing.T) {
		out := normalizeWhitespace{}.Apply(rng, "a  b  c")
		assert.Equal(t, "a b c", out)
	})

	t.Run("trim", func(t *testing.T) {
		out := trimEdges{}.Apply(rng, "  padded  ")
		assert.Equal(t, "padded", out)
	})

	t.Run("append_newline", func(t *testing.T) {
		out := appendNewline{}.Apply(rng, "line")
		assert.Equal(t, "line\n", out)
	})

	t.Run("swap_words", func(t *testing.T) {
		in := "alpha beta gamma delta"
		out := swapWords{}.Apply(rng, in)
		assert.NotEqual(t, in, out)
		assert.ElementsMatch(t, strings.Fields(in), strings.Fields(out))
	})

	t.Run("swap_words single word is a no-op", func(t *testing.T) {
		assert.Equal(t, "solo", swapWords{}.Apply(rng, "solo"))
	})

	t.Run("insert_phrase", func(t *testing.T) {
		out := insertPhrase{}.Apply(rng, "alpha beta")
		words := strings.Fields(out)
		require.Len(t, words, 3)

		inserted := false
		for _, phrase := range connectivePhrases {
			if strings.Contains(out, phrase) {
				inserted = true
			}
		}
		assert.True(t, inserted, "expected one of the connective phrases in %q", out)
	})

	t.Run("insert_phrase empty content is a no-op", func(t *testing.T) {
		assert.Equal(t, "", insertPhrase{}.Apply(rng, ""))
	})
}

func TestSetWeightSkewsSelection(t *testing.T) {
	ops := newTestOperators(3)
	for _, s := range ops.strategies {
		if s.Name() != "append_newline" {
			ops.SetWeight(s.Name(), 0)
		}
	}

	parent := &Candidate{ID: "p", Content: "alpha beta"}
	for i := 0; i < 10; i++ {
		child := ops.Mutate(parent, 1)
		assert.Equal(t, "alpha beta\n", child.Content)
	}
}
