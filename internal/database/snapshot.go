package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/seuros/ecodash/internal/dashboard"
)

// ErrNoSnapshot is returned by Load before the first Save.
var ErrNoSnapshot = errors.New("no dashboard snapshot stored")

// SnapshotRepository persists the store contents as a single JSONB row.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository returns a repository backed by db.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save upserts snap.
func (r *SnapshotRepository) Save(ctx context.Context, snap dashboard.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO dashboard_snapshot (id, data, taken_at, updated_at)
		 VALUES (1, $1, $2, NOW())
		 ON CONFLICT (id) DO UPDATE
		 SET data = EXCLUDED.data, taken_at = EXCLUDED.taken_at, updated_at = NOW()`,
		data, snap.TakenAt)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or ErrNoSnapshot.
func (r *SnapshotRepository) Load(ctx context.Context) (dashboard.Snapshot, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT data FROM dashboard_snapshot WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return dashboard.Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return dashboard.Snapshot{}, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap dashboard.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return dashboard.Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}
