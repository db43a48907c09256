package runner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/evolve-go/pkg/checkpoint"
	"github.com/XiaoConstantine/evolve-go/pkg/config"
)

func runConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.TaskID = "run-test"
	cfg.Seed = "hello world"
	cfg.EvaluationCriteria = "hello"
	cfg.MaxGenerations = 3
	cfg.PopulationSize = 6
	cfg.NumIslands = 2
	cfg.RandomSeed = 42
	cfg.OutputDir = t.TempDir()
	return cfg
}

func TestEvolveProducesResult(t *testing.T) {
	cfg := runConfig(t)
	result := New(nil).Evolve(context.Background(), cfg)

	require.True(t, result.Success, "run failed: %s", result.Error)
	assert.Equal(t, "run-test", result.TaskID)
	assert.Equal(t, 3, result.Generations)
	assert.NotEmpty(t, result.BestSolution)
	assert.GreaterOrEqual(t, result.BestFitness, 0.5)
	// Gen 1 scores the full population; later gens score only new offspring.
	assert.GreaterOrEqual(t, result.TotalEvaluations, 6)
	assert.LessOrEqual(t, result.TotalEvaluations, 3*6)
	assert.NotEmpty(t, result.ParetoFront)
	assert.Len(t, result.History, 3)
	assert.Empty(t, result.Error)
}

func TestEvolveGeneratesTaskIDWhenMissing(t *testing.T) {
	cfg := runConfig(t)
	cfg.TaskID = ""

	result := New(nil).Evolve(context.Background(), cfg)
	require.True(t, result.Success, "run failed: %s", result.Error)
	assert.Regexp(t, `^task_\d+$`, result.TaskID)
}

func TestEvolveRejectsInvalidConfig(t *testing.T) {
	cfg := runConfig(t)
	cfg.PopulationSize = 0

	result := New(nil).Evolve(context.Background(), cfg)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestEvolveWritesCheckpointAndStatus(t *testing.T) {
	cfg := runConfig(t)
	result := New(nil).Evolve(context.Background(), cfg)
	require.True(t, result.Success, "run failed: %s", result.Error)

	assert.FileExists(t, filepath.Join(cfg.OutputDir, "run-test_checkpoint.json"))
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "run-test_status.json"))

	status, err := New(nil).Status(context.Background(), "run-test", cfg.OutputDir, "file")
	require.NoError(t, err)
	assert.False(t, status.Active, "a completed run must be marked inactive")
	assert.Equal(t, 3, status.Generation)
	assert.Equal(t, result.BestFitness, status.BestFitness)
}

func TestContinueExtendsRun(t *testing.T) {
	cfg := runConfig(t)
	cfg.MaxGenerations = 7

	first := New(nil).Evolve(context.Background(), cfg)
	require.True(t, first.Success, "run failed: %s", first.Error)
	require.Equal(t, 7, first.Generations)

	second := New(nil).Continue(context.Background(), "run-test", 3, cfg.OutputDir, "file")
	require.True(t, second.Success, "continue failed: %s", second.Error)
	assert.Equal(t, 10, second.Generations)
	assert.Len(t, second.History, 10)
	assert.GreaterOrEqual(t, second.BestFitness, first.BestFitness,
		"continued evolution must not lose the best of record")
}

func TestContinueUnknownTask(t *testing.T) {
	dir := t.TempDir()
	result := New(nil).Continue(context.Background(), "never_ran", 5, dir, "file")

	assert.False(t, result.Success)
	assert.Equal(t, "never_ran", result.TaskID)
	assert.True(t, strings.HasPrefix(result.Error, "Checkpoint not found"),
		"got error %q", result.Error)

	// The failed continue must leave nothing new behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStatusUnknownTask(t *testing.T) {
	_, err := New(nil).Status(context.Background(), "never_ran", t.TempDir(), "file")
	assert.Error(t, err)
}

func TestEvolveWithSQLiteStorage(t *testing.T) {
	cfg := runConfig(t)
	cfg.Storage = "sqlite"

	result := New(nil).Evolve(context.Background(), cfg)
	require.True(t, result.Success, "run failed: %s", result.Error)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "evolve_checkpoints.db"))

	resumed := New(nil).Continue(context.Background(), "run-test", 2, cfg.OutputDir, "sqlite")
	require.True(t, resumed.Success, "continue failed: %s", resumed.Error)
	assert.Equal(t, 5, resumed.Generations)

	status, err := New(nil).Status(context.Background(), "run-test", cfg.OutputDir, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, 5, status.Generation)
	assert.False(t, status.Active)
}

func TestEvolveHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := New(nil).Evolve(ctx, runConfig(t))
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestCheckpointSurvivesMidRunInspection(t *testing.T) {
	cfg := runConfig(t)
	result := New(nil).Evolve(context.Background(), cfg)
	require.True(t, result.Success, "run failed: %s", result.Error)

	store, err := checkpoint.NewFileStore(cfg.OutputDir)
	require.NoError(t, err)
	defer store.Close()

	state, err := store.Load(context.Background(), "run-test")
	require.NoError(t, err)
	assert.Equal(t, 3, state.Generation)
	assert.Equal(t, result.BestSolution, state.BestCandidate.Content)
	assert.Equal(t, cfg.RandomSeed, state.Config.RandomSeed)
}
