package mastery

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/abhisek/fretiz/internal/store"
)

// SnapshotsKept is how many tracker snapshots survive a Save.
const SnapshotsKept = 10

// Load restores a tracker from the most recent snapshot in repo. An empty
// repo yields a fresh tracker with cfg.
func Load(ctx context.Context, repo store.SnapshotRepo, cfg Config, rng *rand.Rand) (*Tracker, error) {
	snap, err := repo.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("load latest snapshot: %w", err)
	}
	var data *store.SnapshotData
	if snap != nil {
		data = snap.Data
	}
	return NewTracker(data, cfg, rng), nil
}

// Save writes the tracker state as a new snapshot and prunes all but the
// newest SnapshotsKept.
func (t *Tracker) Save(ctx context.Context, repo store.SnapshotRepo) error {
	snap := &store.Snapshot{
		Data: &store.SnapshotData{
			Version: store.SnapshotVersion,
			Mastery: t.SnapshotData(),
		},
	}
	if err := repo.Save(ctx, snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := repo.Prune(ctx, SnapshotsKept); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
