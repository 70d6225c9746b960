package persist

import (
	"context"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// FrameSample is one sampled frame of a run.
type FrameSample struct {
	Frame    int64
	GameTime float64
	DT       float64
	Entities int
	Bodies   int
	Contacts int
	Spawned  int
	Removed  int
}

// SceneFingerprint hashes a scene file so runs of the same scene can be
// grouped regardless of its path.
func SceneFingerprint(raw []byte) []byte {
	sum := blake2b.Sum256(raw)
	return sum[:]
}

type TelemetryRepo struct {
	db *DB
}

func NewTelemetryRepo(db *DB) *TelemetryRepo {
	return &TelemetryRepo{db: db}
}

// StartRun records a new run and returns its id.
func (r *TelemetryRepo) StartRun(ctx context.Context, sceneName string, sceneRaw []byte) (int64, error) {
	var id int64
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO sim_runs (scene_name, scene_hash) VALUES ($1, $2) RETURNING id`,
		sceneName, SceneFingerprint(sceneRaw),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("start run: %w", err)
	}
	return id, nil
}

// WriteFrames inserts a batch of samples in a single transaction.
func (r *TelemetryRepo) WriteFrames(ctx context.Context, runID int64, samples []FrameSample) error {
	if len(samples) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("frames begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, s := range samples {
		if _, err := tx.Exec(ctx,
			`INSERT INTO sim_frames (run_id, frame, game_time, dt, entities, bodies, contacts, spawned, removed)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 ON CONFLICT (run_id, frame) DO NOTHING`,
			runID, s.Frame, s.GameTime, s.DT, s.Entities, s.Bodies, s.Contacts, s.Spawned, s.Removed,
		); err != nil {
			return fmt.Errorf("frames insert: %w", err)
		}
	}
	if _, err := tx.Exec(ctx,
		`UPDATE sim_runs SET frames = GREATEST(frames, $2) WHERE id = $1`,
		runID, samples[len(samples)-1].Frame,
	); err != nil {
		return fmt.Errorf("frames update run: %w", err)
	}

	return tx.Commit(ctx)
}

// FinishRun stamps the run's end time.
func (r *TelemetryRepo) FinishRun(ctx context.Context, runID int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE sim_runs SET finished_at = now() WHERE id = $1`, runID,
	)
	return err
}

// CountFrames returns how many samples a run has stored.
func (r *TelemetryRepo) CountFrames(ctx context.Context, runID int64) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT count(*) FROM sim_frames WHERE run_id = $1`, runID,
	).Scan(&n)
	return n, err
}
