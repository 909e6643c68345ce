package progress

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for tests and local runs.
type MemoryRepo struct {
	mu    sync.RWMutex
	rows  map[string]Snapshot
	clock func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		rows:  make(map[string]Snapshot),
		clock: time.Now,
	}
}

func (r *MemoryRepo) Get(_ context.Context, playerID string) (Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap, ok := r.rows[playerID]
	return snap, ok, nil
}

func (r *MemoryRepo) Put(_ context.Context, snap Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap.UpdatedAt = r.clock()
	r.rows[snap.PlayerID] = snap
	return nil
}

func (r *MemoryRepo) Update(_ context.Context, playerID string, fn func(Snapshot, bool) (Snapshot, error)) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, found := r.rows[playerID]
	next, err := fn(cur, found)
	if err != nil {
		return Snapshot{}, err
	}
	next.PlayerID = playerID
	next.UpdatedAt = r.clock()
	r.rows[playerID] = next
	return next, nil
}

func (r *MemoryRepo) Close() error { return nil }

// Len reports the number of stored players.
func (r *MemoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}
