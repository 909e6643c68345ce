package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tapkombat/internal/config"
	"tapkombat/internal/game"
)

func TestMemoryRepo_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	last := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	in := Snapshot{
		PlayerID:      "player_1764576000000_ab12cd34",
		Coins:         4200,
		Energy:        650,
		MaxEnergy:     1000,
		ProfitPerHour: 252,
		Level:         2,
		TapPower:      1,
		Upgrades: []game.UpgradeState{
			{ID: "u_golden_hands", Name: "Golden Hands", Cost: 1500, Level: 1, ProfitPerHour: 126, Category: "markets"},
		},
		LastDailyReward: &last,
		DailyStreak:     3,
	}
	require.NoError(t, repo.Put(ctx, in))

	got, found, err := repo.Get(ctx, in.PlayerID)
	require.NoError(t, err)
	require.True(t, found)

	// UpdatedAt is stamped by the store; everything else must survive
	// the round trip untouched.
	got.UpdatedAt = time.Time{}
	assert.Equal(t, in, got)
}

func TestMemoryRepo_UnknownPlayerNotFound(t *testing.T) {
	repo := NewMemoryRepo()
	_, found, err := repo.Get(context.Background(), "player_nobody")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSnapshot_StateFallsBackToDefaults(t *testing.T) {
	defaults := *game.NewPlayerState(config.Default())

	// A snapshot with out-of-range fields must not poison the state.
	snap := Snapshot{
		Coins:    -5,
		Energy:   99999,
		Level:    0,
		TapPower: 0,
	}
	st := snap.State(defaults)

	assert.Equal(t, defaults.Coins, st.Coins)
	assert.Equal(t, defaults.MaxEnergy, st.MaxEnergy)
	assert.LessOrEqual(t, st.Energy, st.MaxEnergy)
	assert.Equal(t, 1, st.Level)
	assert.Equal(t, 1, st.TapPower)
}

func TestSnapshot_StateRoundTrip(t *testing.T) {
	defaults := *game.NewPlayerState(config.Default())
	p := defaults
	p.Coins = 777
	p.Energy = 10
	p.DailyStreak = 2

	snap := FromState("player_x", p)
	back := snap.State(defaults)
	assert.Equal(t, p, back)
}

func TestMemoryRepo_UpdateIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	require.NoError(t, repo.Put(ctx, Snapshot{PlayerID: "player_u", Coins: 100}))

	got, err := repo.Update(ctx, "player_u", func(snap Snapshot, found bool) (Snapshot, error) {
		require.True(t, found)
		snap.Coins += 50
		return snap, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 150, got.Coins)

	stored, found, err := repo.Get(ctx, "player_u")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 150, stored.Coins)
}

func TestMemoryRepo_UpdateErrorLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	require.NoError(t, repo.Put(ctx, Snapshot{PlayerID: "player_u", Coins: 100}))

	boom := errors.New("not eligible")
	_, err := repo.Update(ctx, "player_u", func(snap Snapshot, _ bool) (Snapshot, error) {
		snap.Coins = 0
		return snap, boom
	})
	require.ErrorIs(t, err, boom)

	stored, _, err := repo.Get(ctx, "player_u")
	require.NoError(t, err)
	assert.Equal(t, 100, stored.Coins)
}
