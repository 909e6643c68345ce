package game

import (
	"time"

	"tapkombat/internal/config"
)

// PlayerState is the full simulated state for one player. It is
// mutated in memory by taps, purchases and claims, and mirrored to
// the progress server by the session.
type PlayerState struct {
	Coins         int `json:"coins"`
	Energy        int `json:"energy"`
	MaxEnergy     int `json:"max_energy"`
	ProfitPerHour int `json:"profit_per_hour"`
	Level         int `json:"level"`
	TapPower      int `json:"tap_power"`

	Upgrades []UpgradeState `json:"upgrades"`

	// Server-authoritative daily reward record. Only a confirmed
	// claim response may move these.
	LastDailyReward *time.Time `json:"last_daily_reward,omitempty"`
	DailyStreak     int        `json:"daily_streak"`
}

// UpgradeState is one catalog entry carried with player-specific
// level and escalated cost.
type UpgradeState struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Icon          string `json:"icon"`
	Cost          int    `json:"cost"`
	Level         int    `json:"level"`
	ProfitPerHour int    `json:"profit_per_hour"`
	Category      string `json:"category"`
}

// NewPlayerState returns first-session defaults. The upgrade list is
// seeded separately from the catalog.
func NewPlayerState(bal config.Balance) *PlayerState {
	return &PlayerState{
		Coins:     0,
		Energy:    bal.StartEnergy,
		MaxEnergy: bal.StartMaxEnergy,
		Level:     1,
		TapPower:  bal.StartTapPower,
	}
}

// ClampEnergy enforces 0 <= Energy <= MaxEnergy.
func (p *PlayerState) ClampEnergy() {
	if p.Energy < 0 {
		p.Energy = 0
	}
	if p.Energy > p.MaxEnergy {
		p.Energy = p.MaxEnergy
	}
}

// Clone returns a deep copy, safe to hand outside the session loop.
func (p *PlayerState) Clone() PlayerState {
	out := *p
	if p.LastDailyReward != nil {
		t := *p.LastDailyReward
		out.LastDailyReward = &t
	}
	out.Upgrades = make([]UpgradeState, len(p.Upgrades))
	copy(out.Upgrades, p.Upgrades)
	return out
}
