// Package evolvego is a population-based search engine for evolving text and
// code candidates toward higher fitness.
//
// Evolve-Go partitions its population into islands that evolve
// semi-independently, exchanges top performers between islands on a fixed
// cadence, and persists its full state after every generation so a
// long-running search survives process restarts. Fitness scoring is a
// pluggable contract: the engine never interprets candidate content and never
// calls a language model itself.
//
// Key Components:
//
//   - Evolve: The engine core. Candidates with lineage tracking, a closed set
//     of mutation strategies plus midpoint crossover, generation-stepped
//     selection with elitism, ring migration, and an approximate
//     fitness/novelty pareto front over the full population.
//
//   - Checkpoint: Durable snapshots of engine state keyed by task id, with a
//     per-task JSON file backend and a SQLite backend, plus the small status
//     records callers poll for run progress.
//
//   - Runner: The three invocation modes - evolve, continue, status - each
//     producing a single JSON result document.
//
//   - Config: Flat run configuration with defaults matching the reference
//     runner, YAML/JSON loading, and struct-tag validation.
//
// Example usage:
//
//	cfg := config.Default()
//	cfg.Seed = "Summarize the input in three bullet points."
//	cfg.EvaluationCriteria = "concise structured summary"
//
//	result := runner.New(myEvaluator).Evolve(ctx, cfg)
//	if result.Success {
//		fmt.Println(result.BestSolution)
//	}
//
// Candidate evaluation runs on a bounded worker pool; results are
// deterministic for a fixed random seed regardless of the degree of
// parallelism.
package evolvego
