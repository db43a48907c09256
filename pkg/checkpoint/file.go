package checkpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/XiaoConstantine/evolve-go/pkg/errors"
	"github.com/XiaoConstantine/evolve-go/pkg/evolve"
)

// FileStore keeps one JSON checkpoint document and one status document per
// task, overwritten each generation. This is the reference wire format:
// <task>_checkpoint.json and <task>_status.json under a single directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a store rooted
// there.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.Unknown, "failed to create checkpoint directory")
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) checkpointPath(taskID string) string {
	return filepath.Join(s.dir, taskID+"_checkpoint.json")
}

func (s *FileStore) statusPath(taskID string) string {
	return filepath.Join(s.dir, taskID+"_status.json")
}

func (s *FileStore) Save(ctx context.Context, state *evolve.EngineState) error {
	if err := errors.CheckContext(ctx, "checkpoint save"); err != nil {
		return err
	}

	data, err := json.Marshal(state)
	if err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.SerializationFailed, "failed to encode checkpoint"),
			errors.Fields{"task_id": state.TaskID},
		)
	}
	return s.writeAtomic(s.checkpointPath(state.TaskID), data)
}

func (s *FileStore) Load(ctx context.Context, taskID string) (*evolve.EngineState, error) {
	if err := errors.CheckContext(ctx, "checkpoint load"); err != nil {
		return nil, err
	}

	path := s.checkpointPath(taskID)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.CheckpointNotFound,
			fmt.Sprintf("Checkpoint not found: %s", path))
	}
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.Unknown, "failed to read checkpoint"),
			errors.Fields{"task_id": taskID, "path": path},
		)
	}

	var state evolve.EngineState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.SerializationFailed, "corrupt checkpoint"),
			errors.Fields{"task_id": taskID, "path": path},
		)
	}
	return &state, nil
}

func (s *FileStore) SaveStatus(ctx context.Context, taskID string, status Status) error {
	if err := errors.CheckContext(ctx, "status save"); err != nil {
		return err
	}

	data, err := json.Marshal(status)
	if err != nil {
		return errors.Wrap(err, errors.SerializationFailed, "failed to encode status")
	}
	return s.writeAtomic(s.statusPath(taskID), data)
}

func (s *FileStore) LoadStatus(ctx context.Context, taskID string) (Status, error) {
	if err := errors.CheckContext(ctx, "status load"); err != nil {
		return Status{}, err
	}

	path := s.statusPath(taskID)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Status{}, errors.New(errors.CheckpointNotFound,
			fmt.Sprintf("Checkpoint not found: %s", path))
	}
	if err != nil {
		return Status{}, errors.WithFields(
			errors.Wrap(err, errors.Unknown, "failed to read status"),
			errors.Fields{"task_id": taskID, "path": path},
		)
	}

	var status Status
	if err := json.Unmarshal(data, &status); err != nil {
		return Status{}, errors.WithFields(
			errors.Wrap(err, errors.SerializationFailed, "corrupt status record"),
			errors.Fields{"task_id": taskID, "path": path},
		)
	}
	return status, nil
}

func (s *FileStore) Close() error {
	return nil
}

// writeAtomic writes through a temp file and rename so a crash mid-write
// never leaves a partial document at the final path.
func (s *FileStore) writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.Unknown, "failed to write checkpoint file"),
			errors.Fields{"path": path},
		)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.Unknown, "failed to replace checkpoint file"),
			errors.Fields{"path": path},
		)
	}
	return nil
}
