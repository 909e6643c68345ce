package progress

import (
	"context"
	"errors"
)

// ErrNotFound aborts an Update whose callback requires an existing
// player.
var ErrNotFound = errors.New("player not found")

// Repo is the durable store behind the progress server. Get reports
// found=false for a first-time player; Put is a full upsert of the
// snapshot keyed by its player id.
//
// Update runs fn under the store's per-player write lock (or inside a
// transaction) and persists its result, so read-modify-write cycles
// like the daily claim never interleave. An error from fn aborts the
// update and is returned unchanged.
type Repo interface {
	Get(ctx context.Context, playerID string) (Snapshot, bool, error)
	Put(ctx context.Context, snap Snapshot) error
	Update(ctx context.Context, playerID string, fn func(snap Snapshot, found bool) (Snapshot, error)) (Snapshot, error)
	Close() error
}
