package evolve

import (
	"sort"
	"strings"
)

const (
	// Word-set overlap above which two candidates count as near-duplicates.
	noveltyOverlapThreshold = 0.8
	// Weight of novelty relative to fitness when ranking the front.
	noveltyWeight = 0.5
	// Maximum number of candidates returned in the front.
	paretoFrontSize = 10
)

// ParetoFront ranks a snapshot of candidates by fitness plus weighted novelty
// and returns the top performers. Novelty is 1 minus the fraction of peers
// whose word-set overlap with the candidate exceeds 80%; a candidate with no
// peers has novelty 1.0.
//
// This is an approximation of a pareto front, not a true non-dominated-set
// computation. The inputs are cloned, so islands are never mutated.
func ParetoFront(candidates []*Candidate) []*Candidate {
	front := make([]*Candidate, len(candidates))
	wordSets := make([]map[string]struct{}, len(candidates))
	for i, c := range candidates {
		front[i] = c.Clone()
		wordSets[i] = wordSet(c.Content)
	}

	for i, c := range front {
		c.Novelty = noveltyOf(i, front, wordSets)
	}

	sort.SliceStable(front, func(i, j int) bool {
		si := front[i].Fitness.Score + noveltyWeight*front[i].Novelty
		sj := front[j].Fitness.Score + noveltyWeight*front[j].Novelty
		return si > sj
	})

	if len(front) > paretoFrontSize {
		front = front[:paretoFrontSize]
	}
	return front
}

func noveltyOf(i int, candidates []*Candidate, wordSets []map[string]struct{}) float64 {
	self := wordSets[i]
	peers := 0
	similar := 0
	for j := range candidates {
		if j == i || candidates[j].ID == candidates[i].ID {
			continue
		}
		peers++
		if overlap(self, wordSets[j]) > noveltyOverlapThreshold {
			similar++
		}
	}
	if peers == 0 {
		return 1.0
	}
	return 1.0 - float64(similar)/float64(peers)
}

// overlap measures shared words relative to the candidate's own vocabulary.
func overlap(self, other map[string]struct{}) float64 {
	size := len(self)
	if size == 0 {
		size = 1
	}
	shared := 0
	for w := range self {
		if _, ok := other[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(size)
}

func wordSet(content string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(content) {
		set[w] = struct{}{}
	}
	return set
}
