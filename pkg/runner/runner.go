// Package runner wires the engine, checkpoint store, and configuration into
// the three invocation modes of the system: evolve, continue, and status.
package runner

import (
	"context"
	"path/filepath"

	"github.com/XiaoConstantine/evolve-go/pkg/checkpoint"
	"github.com/XiaoConstantine/evolve-go/pkg/config"
	"github.com/XiaoConstantine/evolve-go/pkg/evolve"
	"github.com/XiaoConstantine/evolve-go/pkg/logging"
)

// Result is the single JSON document a run emits on exit, for both success
// and failure.
type Result struct {
	Success          bool                     `json:"success"`
	TaskID           string                   `json:"task_id"`
	BestSolution     string                   `json:"best_solution,omitempty"`
	BestFitness      float64                  `json:"best_fitness,omitempty"`
	Generations      int                      `json:"generations,omitempty"`
	TotalEvaluations int                      `json:"total_evaluations,omitempty"`
	DiversityScore   float64                  `json:"diversity_score,omitempty"`
	ParetoFront      []*evolve.Candidate      `json:"pareto_front,omitempty"`
	History          []evolve.GenerationStats `json:"history,omitempty"`
	Error            string                   `json:"error,omitempty"`
}

// Runner drives evolution runs against a pluggable evaluator. The zero
// evaluator is the built-in heuristic scorer.
type Runner struct {
	evaluator evolve.Evaluator
	opts      []evolve.Option
}

// New creates a runner. A nil evaluator falls back to the heuristic scorer.
func New(evaluator evolve.Evaluator, opts ...evolve.Option) *Runner {
	if evaluator == nil {
		evaluator = evolve.HeuristicEvaluator{}
	}
	return &Runner{evaluator: evaluator, opts: opts}
}

func openStore(storage, dir string) (checkpoint.Store, error) {
	switch storage {
	case "sqlite":
		return checkpoint.NewSQLiteStore(filepath.Join(dir, "evolve_checkpoints.db"))
	default:
		return checkpoint.NewFileStore(dir)
	}
}

// Evolve runs a fresh search to completion, persisting a checkpoint and a
// status record after every generation.
func (r *Runner) Evolve(ctx context.Context, cfg config.Config) Result {
	cfg.EnsureTaskID()
	ctx = logging.WithTaskID(ctx, cfg.TaskID)
	logger := logging.GetLogger()

	if err := cfg.Validate(); err != nil {
		return failure(cfg.TaskID, err)
	}

	store, err := openStore(cfg.Storage, cfg.OutputDir)
	if err != nil {
		return failure(cfg.TaskID, err)
	}
	defer store.Close()

	engine, err := evolve.New(cfg, r.evaluator, r.opts...)
	if err != nil {
		return failure(cfg.TaskID, err)
	}

	logger.Info(ctx, "Starting evolution: generations=%d population=%d islands=%d",
		cfg.MaxGenerations, cfg.PopulationSize, cfg.NumIslands)

	if err := r.drive(ctx, engine, store, cfg.MaxGenerations); err != nil {
		return failure(cfg.TaskID, err)
	}

	return success(engine)
}

// Continue resumes a prior run from its checkpoint for additional
// generations, then re-saves. A missing checkpoint is a structured failure,
// not a crash, and leaves nothing new on disk.
func (r *Runner) Continue(ctx context.Context, taskID string, additionalGenerations int, checkpointDir, storage string) Result {
	ctx = logging.WithTaskID(ctx, taskID)
	logger := logging.GetLogger()

	store, err := openStore(storage, checkpointDir)
	if err != nil {
		return failure(taskID, err)
	}
	defer store.Close()

	state, err := store.Load(ctx, taskID)
	if err != nil {
		return failure(taskID, err)
	}

	engine, err := evolve.Restore(state, r.evaluator, r.opts...)
	if err != nil {
		return failure(taskID, err)
	}

	logger.Info(ctx, "Resuming evolution at generation %d for %d more generations",
		engine.Generation(), additionalGenerations)

	if err := r.drive(ctx, engine, store, additionalGenerations); err != nil {
		return failure(taskID, err)
	}

	return success(engine)
}

// Status reports whether a run is active and its latest generation and best
// fitness, without mutating any state.
func (r *Runner) Status(ctx context.Context, taskID, checkpointDir, storage string) (checkpoint.Status, error) {
	store, err := openStore(storage, checkpointDir)
	if err != nil {
		return checkpoint.Status{}, err
	}
	defer store.Close()

	return store.LoadStatus(ctx, taskID)
}

// drive steps the engine n times, persisting after every generation, then
// marks the status record inactive.
func (r *Runner) drive(ctx context.Context, engine *evolve.Engine, store checkpoint.Store, n int) error {
	for i := 0; i < n; i++ {
		if _, err := engine.Step(ctx); err != nil {
			return err
		}
		if err := r.persist(ctx, engine, store, true); err != nil {
			return err
		}
	}
	return r.persist(ctx, engine, store, false)
}

func (r *Runner) persist(ctx context.Context, engine *evolve.Engine, store checkpoint.Store, active bool) error {
	state := engine.Snapshot()
	if err := store.Save(ctx, state); err != nil {
		return err
	}

	status := checkpoint.Status{
		Active:     active,
		Generation: engine.Generation(),
	}
	if best := engine.Best(); best != nil {
		status.BestFitness = best.Fitness.Score
	}
	return store.SaveStatus(ctx, state.TaskID, status)
}

func failure(taskID string, err error) Result {
	logging.GetLogger().Error(context.Background(), "Run failed for task %s: %v", taskID, err)
	return Result{
		Success: false,
		TaskID:  taskID,
		Error:   err.Error(),
	}
}

func success(engine *evolve.Engine) Result {
	result := Result{
		Success:          true,
		TaskID:           engine.TaskID(),
		Generations:      engine.Generation(),
		TotalEvaluations: engine.TotalEvaluations(),
		ParetoFront:      engine.Pareto(),
		History:          engine.History(),
	}
	if best := engine.Best(); best != nil {
		result.BestSolution = best.Content
		result.BestFitness = best.Fitness.Score
	}
	if history := engine.History(); len(history) > 0 {
		result.DiversityScore = history[len(history)-1].Diversity
	}
	return result
}
