package progress

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileRepo is a Repo backed by a single JSON file. It is meant for
// small self-hosted installs where a database is overkill; every Put
// rewrites the file.
type FileRepo struct {
	mu    sync.RWMutex
	path  string
	s     fileState
	clock func() time.Time
}

type fileState struct {
	Players map[string]Snapshot `json:"players"`
}

func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	r := &FileRepo{
		path:  filepath.Join(dataDir, "progress.json"),
		s:     fileState{Players: map[string]Snapshot{}},
		clock: time.Now,
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileRepo) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.s = fileState{Players: map[string]Snapshot{}}
			return nil
		}
		return err
	}

	var loaded fileState
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	if loaded.Players == nil {
		loaded.Players = map[string]Snapshot{}
	}
	r.s = loaded
	return nil
}

func (r *FileRepo) saveLocked() error {
	b, err := json.MarshalIndent(r.s, "", "  ")
	if err != nil {
		return err
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}

func (r *FileRepo) Get(_ context.Context, playerID string) (Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap, ok := r.s.Players[playerID]
	return snap, ok, nil
}

func (r *FileRepo) Put(_ context.Context, snap Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap.UpdatedAt = r.clock()
	r.s.Players[snap.PlayerID] = snap
	return r.saveLocked()
}

func (r *FileRepo) Update(_ context.Context, playerID string, fn func(Snapshot, bool) (Snapshot, error)) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, found := r.s.Players[playerID]
	next, err := fn(cur, found)
	if err != nil {
		return Snapshot{}, err
	}
	next.PlayerID = playerID
	next.UpdatedAt = r.clock()
	r.s.Players[playerID] = next
	if err := r.saveLocked(); err != nil {
		return Snapshot{}, err
	}
	return next, nil
}

func (r *FileRepo) Close() error { return nil }
