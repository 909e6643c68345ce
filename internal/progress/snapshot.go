// Package progress defines the durable player-progress schema and
// the read/write contract over it. The storage engine behind the Repo
// interface is swappable; SQLite is the default.
package progress

import (
	"encoding/json"
	"time"

	"tapkombat/internal/game"
)

// Snapshot is the full persisted state for one player, keyed by an
// opaque durable player id. Field names match the wire format used by
// the save/load endpoints.
type Snapshot struct {
	PlayerID      string              `json:"player_id"`
	Coins         int                 `json:"coins"`
	Energy        int                 `json:"energy"`
	MaxEnergy     int                 `json:"max_energy"`
	ProfitPerHour int                 `json:"profit_per_hour"`
	Level         int                 `json:"level"`
	TapPower      int                 `json:"tap_power"`
	Upgrades      []game.UpgradeState `json:"upgrades"`

	// Reserved for the achievements feature; carried opaquely.
	Tasks          []json.RawMessage `json:"tasks"`
	CompletedTasks []json.RawMessage `json:"completed_tasks,omitempty"`

	// Server-authoritative daily reward record. Save requests may not
	// move these; only a claim does.
	LastDailyReward *time.Time `json:"last_daily_reward,omitempty"`
	DailyStreak     int        `json:"daily_streak"`

	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// FromState converts in-memory player state to its persisted form.
func FromState(playerID string, p game.PlayerState) Snapshot {
	return Snapshot{
		PlayerID:        playerID,
		Coins:           p.Coins,
		Energy:          p.Energy,
		MaxEnergy:       p.MaxEnergy,
		ProfitPerHour:   p.ProfitPerHour,
		Level:           p.Level,
		TapPower:        p.TapPower,
		Upgrades:        p.Upgrades,
		LastDailyReward: p.LastDailyReward,
		DailyStreak:     p.DailyStreak,
	}
}

// State converts a snapshot back to in-memory player state. Fields a
// corrupt or older snapshot left empty fall back to the provided
// defaults rather than overwriting with invalid data.
func (s Snapshot) State(defaults game.PlayerState) game.PlayerState {
	out := defaults
	if s.Coins >= 0 {
		out.Coins = s.Coins
	}
	if s.MaxEnergy > 0 {
		out.MaxEnergy = s.MaxEnergy
	}
	if s.Energy >= 0 && s.Energy <= out.MaxEnergy {
		out.Energy = s.Energy
	}
	if s.ProfitPerHour >= 0 {
		out.ProfitPerHour = s.ProfitPerHour
	}
	if s.Level > 0 {
		out.Level = s.Level
	}
	if s.TapPower > 0 {
		out.TapPower = s.TapPower
	}
	if len(s.Upgrades) > 0 {
		out.Upgrades = s.Upgrades
	}
	out.LastDailyReward = s.LastDailyReward
	if s.DailyStreak >= 0 {
		out.DailyStreak = s.DailyStreak
	}
	out.ClampEnergy()
	return out
}
