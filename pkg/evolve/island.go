package evolve

import (
	"sort"
)

// Island is an ordered sub-population evolved semi-independently. Its nominal
// size is population_size / num_islands; migration may append one extra
// member, which the next replacement step shrinks back down.
type Island []*Candidate

// rank sorts the island by fitness descending. The sort is stable so ties
// keep their insertion order, which keeps ranking independent of evaluation
// completion order.
func (isl Island) rank() {
	sort.SliceStable(isl, func(i, j int) bool {
		return isl[i].Fitness.Score > isl[j].Fitness.Score
	})
}

// Best returns the top candidate, assuming the island has been ranked.
func (isl Island) Best() *Candidate {
	if len(isl) == 0 {
		return nil
	}
	return isl[0]
}

// Clone deep-copies the island.
func (isl Island) Clone() Island {
	out := make(Island, len(isl))
	for i, c := range isl {
		out[i] = c.Clone()
	}
	return out
}

// fitterHalf returns the selection pool parents are sampled from: the top
// half of a ranked island, never empty.
func (isl Island) fitterHalf() Island {
	n := len(isl) / 2
	if n < 1 {
		n = 1
	}
	return isl[:n]
}
