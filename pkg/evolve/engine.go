package evolve

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/XiaoConstantine/evolve-go/pkg/config"
	"github.com/XiaoConstantine/evolve-go/pkg/errors"
	"github.com/XiaoConstantine/evolve-go/pkg/logging"
)

// Engine owns the full island set and drives the generation loop:
// evaluate, rank, track best, reproduce, replace, with ring migration on a
// fixed cadence. It is not safe for concurrent use; one engine instance owns
// exclusive write access to its islands and history.
type Engine struct {
	cfg       config.Config
	evaluator Evaluator
	operators *OperatorSet
	rng       *rand.Rand

	islandSize int
	generation int
	islands    []Island
	best       *Candidate
	history    []GenerationStats

	totalEvaluations int
}

// EngineState is the checkpoint unit: everything needed to reconstruct the
// engine bit-for-bit, plus the originating config so a resumed run keeps its
// parameters.
type EngineState struct {
	TaskID           string            `json:"task_id"`
	Generation       int               `json:"generation"`
	BestCandidate    *Candidate        `json:"best_candidate"`
	Islands          []Island          `json:"islands"`
	History          []GenerationStats `json:"history"`
	TotalEvaluations int               `json:"total_evaluations"`
	Config           config.Config     `json:"config"`
}

// Option customizes engine construction.
type Option func(*Engine)

// WithStrategies replaces the built-in mutation strategy set.
func WithStrategies(strategies ...MutationStrategy) Option {
	return func(e *Engine) {
		e.operators = NewOperatorSet(e.rng, strategies...)
	}
}

// New builds an engine and its initial population: per island, the first
// candidate is the unmutated seed and the rest are single mutations of it.
// It fails without creating partial state when the island sizing is invalid.
func New(cfg config.Config, evaluator Evaluator, opts ...Option) (*Engine, error) {
	if err := validateSizing(cfg); err != nil {
		return nil, err
	}
	cfg = withRuntimeFloors(cfg)

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e := &Engine{
		cfg:        cfg,
		evaluator:  evaluator,
		rng:        rand.New(rand.NewSource(seed)),
		islandSize: cfg.PopulationSize / cfg.NumIslands,
	}
	e.operators = NewOperatorSet(e.rng)

	for _, opt := range opts {
		opt(e)
	}

	e.islands = make([]Island, cfg.NumIslands)
	for i := range e.islands {
		e.islands[i] = e.initialIsland()
	}

	return e, nil
}

// Restore rebuilds an engine from a checkpoint snapshot. The RNG is reseeded
// from the configured seed offset by the generation counter, so resumed runs
// stay deterministic without replaying the original stream.
func Restore(state *EngineState, evaluator Evaluator, opts ...Option) (*Engine, error) {
	cfg := state.Config
	if err := validateSizing(cfg); err != nil {
		return nil, err
	}
	cfg = withRuntimeFloors(cfg)

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e := &Engine{
		cfg:              cfg,
		evaluator:        evaluator,
		rng:              rand.New(rand.NewSource(seed + int64(state.Generation))),
		islandSize:       cfg.PopulationSize / cfg.NumIslands,
		generation:       state.Generation,
		best:             state.BestCandidate,
		totalEvaluations: state.TotalEvaluations,
	}
	e.operators = NewOperatorSet(e.rng)

	for _, opt := range opts {
		opt(e)
	}

	e.islands = make([]Island, len(state.Islands))
	for i, isl := range state.Islands {
		e.islands[i] = isl.Clone()
	}
	e.history = append([]GenerationStats(nil), state.History...)

	return e, nil
}

// withRuntimeFloors backfills the loop parameters a hand-built config may
// leave zero. A zero migration interval would otherwise divide by zero in
// Step, and conc rejects a zero-width pool.
func withRuntimeFloors(cfg config.Config) config.Config {
	if cfg.MigrationInterval < 1 {
		cfg.MigrationInterval = config.Default().MigrationInterval
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return cfg
}

func validateSizing(cfg config.Config) error {
	if cfg.NumIslands < 1 {
		return errors.WithFields(
			errors.New(errors.InvalidConfiguration, "at least one island is required"),
			errors.Fields{"num_islands": cfg.NumIslands},
		)
	}
	if cfg.PopulationSize < cfg.NumIslands {
		return errors.WithFields(
			errors.New(errors.InvalidConfiguration, "population size must cover all islands"),
			errors.Fields{
				"population_size": cfg.PopulationSize,
				"num_islands":     cfg.NumIslands,
			},
		)
	}
	return nil
}

func (e *Engine) initialIsland() Island {
	isl := make(Island, 0, e.islandSize)

	seed := &Candidate{
		ID:         newCandidateID(e.rng),
		Content:    e.cfg.Seed,
		Generation: 0,
	}
	isl = append(isl, seed)

	for len(isl) < e.islandSize {
		isl = append(isl, e.operators.Mutate(seed, 0))
	}
	return isl
}

// Step runs one full generation across all islands and appends the resulting
// stats record to the history. The global generation counter advances once
// per call.
func (e *Engine) Step(ctx context.Context) (GenerationStats, error) {
	if err := errors.CheckContext(ctx, "generation step"); err != nil {
		return GenerationStats{}, err
	}

	e.generation++
	ctx = logging.WithGeneration(ctx, e.generation)

	e.evaluateAll(ctx)

	improvements := 0
	for i, isl := range e.islands {
		isl.rank()

		if top := isl.Best(); top != nil && e.improves(top) {
			e.best = top.Clone()
			improvements++
		}

		e.islands[i] = e.reproduce(isl)
	}

	if e.generation%e.cfg.MigrationInterval == 0 && len(e.islands) > 1 {
		e.migrate(ctx)
	}

	stats := e.collectStats(improvements)
	e.history = append(e.history, stats)

	logging.GetLogger().Debug(ctx, "Generation complete: best=%.3f avg=%.3f diversity=%.2f improvements=%d",
		stats.BestFitness, stats.AvgFitness, stats.Diversity, stats.Improvements)

	return stats, nil
}

// Run drives the generation loop for n steps, checking for cooperative
// cancellation between generations.
func (e *Engine) Run(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if _, err := e.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) improves(top *Candidate) bool {
	if e.best == nil {
		return top.Fitness.Score > 0
	}
	return top.Fitness.Score > e.best.Fitness.Score
}

// evaluateAll scores every not-yet-evaluated candidate across all islands on
// a bounded worker pool, then blocks until the whole batch completes. Workers
// never touch the engine RNG, so the degree of parallelism cannot perturb
// reproducibility. A failed or timed-out evaluation records a score of 0.0.
func (e *Engine) evaluateAll(ctx context.Context) {
	var pending []*Candidate
	for _, isl := range e.islands {
		for _, c := range isl {
			if !c.Fitness.Evaluated {
				pending = append(pending, c)
			}
		}
	}
	if len(pending) == 0 {
		return
	}

	logger := logging.GetLogger()
	var mu sync.Mutex
	failed := 0

	p := pool.New().WithMaxGoroutines(e.cfg.Concurrency)
	for _, candidate := range pending {
		candidate := candidate
		p.Go(func() {
			score, err := e.evaluateOne(ctx, candidate)
			if err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
				logger.Warn(ctx, "Evaluation failed for candidate %s: %v", candidate.ID, err)
				score = 0.0
			}
			candidate.Fitness = Scored(score)
		})
	}
	p.Wait()

	e.totalEvaluations += len(pending)
	if failed > 0 {
		logger.Warn(ctx, "Evaluation batch finished with %d/%d failures", failed, len(pending))
	}
}

func (e *Engine) evaluateOne(ctx context.Context, candidate *Candidate) (float64, error) {
	if e.cfg.EvalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.EvalTimeout.Std())
		defer cancel()
	}

	score, err := e.evaluator.Evaluate(ctx, candidate, e.cfg.EvaluationCriteria)
	if err != nil {
		if ctx.Err() != nil {
			return 0, errors.Wrap(err, errors.Timeout, "evaluation timed out")
		}
		return 0, errors.Wrap(err, errors.EvaluationFailed, "evaluator returned an error")
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score, nil
}

// reproduce builds the replacement island: elite copies first, then offspring
// bred from the fitter half until the nominal size is reached. The old island
// is discarded wholesale.
func (e *Engine) reproduce(isl Island) Island {
	next := make(Island, 0, e.islandSize)

	if e.cfg.Elitism {
		elite := len(isl) / 5
		if elite < 1 {
			elite = 1
		}
		if elite > len(isl) {
			elite = len(isl)
		}
		for _, c := range isl[:elite] {
			next = append(next, c.Clone())
		}
	}

	parents := isl.fitterHalf()
	for len(next) < e.islandSize {
		if e.rng.Float64() < e.cfg.CrossoverRate && len(parents) >= 2 {
			i := e.rng.Intn(len(parents))
			j := e.rng.Intn(len(parents) - 1)
			if j >= i {
				j++
			}
			next = append(next, e.operators.Crossover(parents[i], parents[j], e.generation))
		} else {
			parent := parents[e.rng.Intn(len(parents))]
			next = append(next, e.operators.Mutate(parent, e.generation))
		}
	}

	return next
}

// migrate copies each island's top candidate to the next island in a one-way
// ring. The migrant stays in its source island and keeps its score; it simply
// participates as an extra member until the next replacement step.
func (e *Engine) migrate(ctx context.Context) {
	migrants := make([]*Candidate, len(e.islands))
	for i, isl := range e.islands {
		migrants[i] = isl.Best()
	}

	for i, migrant := range migrants {
		if migrant == nil {
			continue
		}
		next := (i + 1) % len(e.islands)
		e.islands[next] = append(e.islands[next], migrant.Clone())
	}

	logging.GetLogger().Debug(ctx, "Migration complete across %d islands", len(e.islands))
}

// Snapshot captures the engine state for checkpointing. The copy is deep, so
// continued evolution never mutates a saved snapshot.
func (e *Engine) Snapshot() *EngineState {
	islands := make([]Island, len(e.islands))
	for i, isl := range e.islands {
		islands[i] = isl.Clone()
	}

	var best *Candidate
	if e.best != nil {
		best = e.best.Clone()
	}

	return &EngineState{
		TaskID:           e.cfg.TaskID,
		Generation:       e.generation,
		BestCandidate:    best,
		Islands:          islands,
		History:          append([]GenerationStats(nil), e.history...),
		TotalEvaluations: e.totalEvaluations,
		Config:           e.cfg,
	}
}

// TaskID returns the task identity this engine was configured with.
func (e *Engine) TaskID() string {
	return e.cfg.TaskID
}

// Generation returns the global generation counter.
func (e *Engine) Generation() int {
	return e.generation
}

// Best returns the maximum-fitness candidate ever observed, or nil before the
// first evaluation.
func (e *Engine) Best() *Candidate {
	return e.best
}

// History returns the append-only per-generation stats records.
func (e *Engine) History() []GenerationStats {
	return e.history
}

// Islands exposes the current island set for inspection.
func (e *Engine) Islands() []Island {
	return e.islands
}

// TotalEvaluations reports how many evaluator calls the engine has made.
func (e *Engine) TotalEvaluations() int {
	return e.totalEvaluations
}

// Pareto extracts the fitness/novelty front over the union of all islands at
// this instant.
func (e *Engine) Pareto() []*Candidate {
	var all []*Candidate
	for _, isl := range e.islands {
		all = append(all, isl...)
	}
	return ParetoFront(all)
}
