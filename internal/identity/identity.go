// Package identity mints and persists the opaque player identifier.
// The id is generated once per installation and reused for every
// session; deleting it effectively creates a new player.
package identity

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const fileName = "player_id"

// LoadOrCreate returns the durable player id stored under dataDir,
// minting and persisting a fresh one on first run.
func LoadOrCreate(dataDir string) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create identity dir: %w", err)
	}
	path := filepath.Join(dataDir, fileName)

	b, err := os.ReadFile(path)
	if err == nil {
		id := strings.TrimSpace(string(b))
		if id != "" {
			return id, nil
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("read player id: %w", err)
	}

	id := Mint(time.Now())
	if err := os.WriteFile(path, []byte(id+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("persist player id: %w", err)
	}
	return id, nil
}

// Mint builds a new player id from the moment of creation and a
// random suffix.
func Mint(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("player_%d_%s", now.UnixMilli(), suffix)
}
