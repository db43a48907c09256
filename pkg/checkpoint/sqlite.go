package checkpoint

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/XiaoConstantine/evolve-go/pkg/errors"
	"github.com/XiaoConstantine/evolve-go/pkg/evolve"
)

// SQLiteStore keeps one snapshot row and one status row per task. It is the
// durable alternative to the per-task JSON files when many tasks share one
// checkpoint location.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, errors.Unknown, "failed to open sqlite database")
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db, path: path}
	if err := store.initDB(); err != nil {
		db.Close()
		return nil, errors.WithFields(
			errors.Wrap(err, errors.Unknown, "failed to initialize checkpoint schema"),
			errors.Fields{"path": path},
		)
	}

	// WAL keeps per-generation writes cheap
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.Unknown, "failed to enable WAL mode")
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.Unknown, "failed to set synchronous pragma")
	}

	return store, nil
}

func (s *SQLiteStore) initDB() error {
	query := `
	CREATE TABLE IF NOT EXISTS checkpoints (
		task_id TEXT PRIMARY KEY,
		generation INTEGER NOT NULL,
		state BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS statuses (
		task_id TEXT PRIMARY KEY,
		active INTEGER NOT NULL,
		generation INTEGER NOT NULL,
		best_fitness REAL NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`

	_, err := s.db.Exec(query)
	return err
}

func (s *SQLiteStore) Save(ctx context.Context, state *evolve.EngineState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.SerializationFailed, "failed to encode checkpoint"),
			errors.Fields{"task_id": state.TaskID},
		)
	}

	query := `
	INSERT INTO checkpoints (task_id, generation, state, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(task_id) DO UPDATE SET
		generation = excluded.generation,
		state = excluded.state,
		updated_at = excluded.updated_at
	`

	_, err = s.db.ExecContext(ctx, query, state.TaskID, state.Generation, data, time.Now().UnixNano())
	if err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.Unknown, "failed to store checkpoint"),
			errors.Fields{"task_id": state.TaskID, "path": s.path},
		)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, taskID string) (*evolve.EngineState, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM checkpoints WHERE task_id = ?`, taskID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.CheckpointNotFound,
			fmt.Sprintf("Checkpoint not found: task %s in %s", taskID, s.path))
	}
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.Unknown, "failed to query checkpoint"),
			errors.Fields{"task_id": taskID, "path": s.path},
		)
	}

	var state evolve.EngineState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.SerializationFailed, "corrupt checkpoint"),
			errors.Fields{"task_id": taskID, "path": s.path},
		)
	}
	return &state, nil
}

func (s *SQLiteStore) SaveStatus(ctx context.Context, taskID string, status Status) error {
	query := `
	INSERT INTO statuses (task_id, active, generation, best_fitness, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(task_id) DO UPDATE SET
		active = excluded.active,
		generation = excluded.generation,
		best_fitness = excluded.best_fitness,
		updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		taskID, status.Active, status.Generation, status.BestFitness, time.Now().UnixNano())
	if err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.Unknown, "failed to store status"),
			errors.Fields{"task_id": taskID, "path": s.path},
		)
	}
	return nil
}

func (s *SQLiteStore) LoadStatus(ctx context.Context, taskID string) (Status, error) {
	var status Status
	err := s.db.QueryRowContext(ctx,
		`SELECT active, generation, best_fitness FROM statuses WHERE task_id = ?`, taskID).
		Scan(&status.Active, &status.Generation, &status.BestFitness)
	if err == sql.ErrNoRows {
		return Status{}, errors.New(errors.CheckpointNotFound,
			fmt.Sprintf("Checkpoint not found: task %s in %s", taskID, s.path))
	}
	if err != nil {
		return Status{}, errors.WithFields(
			errors.Wrap(err, errors.Unknown, "failed to query status"),
			errors.Fields{"task_id": taskID, "path": s.path},
		)
	}
	return status, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
