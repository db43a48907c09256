// Package checkpoint persists engine snapshots so a long-running search
// survives process restarts. Stores only read and write serialized state;
// they never mutate it.
package checkpoint

import (
	"context"

	"github.com/XiaoConstantine/evolve-go/pkg/evolve"
)

// Status is the small per-task progress record overwritten each generation.
// Active flips to false only after the run loop exits normally.
type Status struct {
	Active      bool    `json:"active"`
	Generation  int     `json:"generation"`
	BestFitness float64 `json:"best_fitness"`
}

// Store persists engine snapshots keyed by task id. Load surfaces a
// CheckpointNotFound error for unknown tasks; corrupt state surfaces as
// SerializationFailed with enough context for manual inspection.
type Store interface {
	Save(ctx context.Context, state *evolve.EngineState) error
	Load(ctx context.Context, taskID string) (*evolve.EngineState, error)
	SaveStatus(ctx context.Context, taskID string, status Status) error
	LoadStatus(ctx context.Context, taskID string) (Status, error)
	Close() error
}
