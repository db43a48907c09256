package evolve

// GenerationStats is the per-generation record appended to the engine
// history, one per completed generation.
type GenerationStats struct {
	Generation     int     `json:"generation"`
	BestFitness    float64 `json:"best_fitness"`
	AvgFitness     float64 `json:"avg_fitness"`
	Diversity      float64 `json:"diversity"`
	PopulationSize int     `json:"population_size"`
	Improvements   int     `json:"improvements"`
}

// collectStats aggregates the full multi-island population after a step.
// BestFitness reports the engine-wide best of record, so it is non-decreasing
// across the history regardless of elitism settings.
func (e *Engine) collectStats(improvements int) GenerationStats {
	var (
		total     int
		sum       float64
		evaluated int
	)
	unique := make(map[string]struct{})

	for _, isl := range e.islands {
		for _, c := range isl {
			total++
			unique[c.Content] = struct{}{}
			if c.Fitness.Evaluated {
				evaluated++
				sum += c.Fitness.Score
			}
		}
	}

	stats := GenerationStats{
		Generation:     e.generation,
		PopulationSize: total,
		Improvements:   improvements,
	}
	if e.best != nil {
		stats.BestFitness = e.best.Fitness.Score
	}
	if evaluated > 0 {
		stats.AvgFitness = sum / float64(evaluated)
	}
	if total > 0 {
		stats.Diversity = float64(len(unique)) / float64(total)
	}
	return stats
}
