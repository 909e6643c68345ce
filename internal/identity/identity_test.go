package identity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMint_Format(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id := Mint(now)

	require.True(t, strings.HasPrefix(id, "player_1772366400000_"), "got %q", id)
	parts := strings.Split(id, "_")
	require.Len(t, parts, 3)
	assert.Len(t, parts[2], 8)
}

func TestMint_Unique(t *testing.T) {
	now := time.Now()
	assert.NotEqual(t, Mint(now), Mint(now))
}

func TestLoadOrCreate_StableAcrossCalls(t *testing.T) {
	dir := t.TempDir()

	first, err := LoadOrCreate(dir)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := LoadOrCreate(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoadOrCreate_FreshDirMintsNewPlayer(t *testing.T) {
	a, err := LoadOrCreate(t.TempDir())
	require.NoError(t, err)
	b, err := LoadOrCreate(t.TempDir())
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
