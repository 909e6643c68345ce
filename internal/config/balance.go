package config

import "time"

// Balance holds gameplay balance configuration
type Balance struct {
	// Starting player stats
	StartEnergy    int `yaml:"start_energy" json:"start_energy"`
	StartMaxEnergy int `yaml:"start_max_energy" json:"start_max_energy"`
	StartTapPower  int `yaml:"start_tap_power" json:"start_tap_power"`

	// Energy regeneration tick
	RegenTickMs   int `yaml:"regen_tick_ms" json:"regen_tick_ms"`
	EnergyPerTick int `yaml:"energy_per_tick" json:"energy_per_tick"`

	// Tap feedback
	BurstTTLMs int `yaml:"burst_ttl_ms" json:"burst_ttl_ms"`

	// Upgrades
	CostGrowth float64 `yaml:"cost_growth" json:"cost_growth"`

	// Daily reward
	DailyBaseReward  int `yaml:"daily_base_reward" json:"daily_base_reward"`
	DailyPerDayBonus int `yaml:"daily_per_day_bonus" json:"daily_per_day_bonus"`
	DailyCapDays     int `yaml:"daily_cap_days" json:"daily_cap_days"`
	ClaimWindowHours int `yaml:"claim_window_hours" json:"claim_window_hours"`

	// Session cadence
	CountdownTickMs int `yaml:"countdown_tick_ms" json:"countdown_tick_ms"`
	AutosaveMs      int `yaml:"autosave_ms" json:"autosave_ms"`
}

// Default returns the default balance configuration
func Default() Balance {
	return Balance{
		StartEnergy:      1000,
		StartMaxEnergy:   1000,
		StartTapPower:    1,
		RegenTickMs:      100,
		EnergyPerTick:    3,
		BurstTTLMs:       1000,
		CostGrowth:       1.5,
		DailyBaseReward:  5000,
		DailyPerDayBonus: 1000,
		DailyCapDays:     6,
		ClaimWindowHours: 24,
		CountdownTickMs:  1000,
		AutosaveMs:       5000,
	}
}

// Classic returns the balance of the earliest revision: slower
// energy regeneration, same economy.
func Classic() Balance {
	cfg := Default()
	cfg.EnergyPerTick = 1
	return cfg
}

func (b Balance) RegenTick() time.Duration {
	return time.Duration(b.RegenTickMs) * time.Millisecond
}

func (b Balance) BurstTTL() time.Duration {
	return time.Duration(b.BurstTTLMs) * time.Millisecond
}

func (b Balance) ClaimWindow() time.Duration {
	return time.Duration(b.ClaimWindowHours) * time.Hour
}

// MissCutoff is the gap after which an unclaimed streak is lost.
// Claiming within each consecutive window keeps the streak alive,
// so the cutoff is two full windows.
func (b Balance) MissCutoff() time.Duration {
	return 2 * b.ClaimWindow()
}

func (b Balance) CountdownTick() time.Duration {
	return time.Duration(b.CountdownTickMs) * time.Millisecond
}

func (b Balance) AutosaveEvery() time.Duration {
	return time.Duration(b.AutosaveMs) * time.Millisecond
}

func (b *Balance) ApplyDefaults() {
	d := Default()
	if b.StartEnergy <= 0 {
		b.StartEnergy = d.StartEnergy
	}
	if b.StartMaxEnergy <= 0 {
		b.StartMaxEnergy = d.StartMaxEnergy
	}
	if b.StartTapPower <= 0 {
		b.StartTapPower = d.StartTapPower
	}
	if b.RegenTickMs <= 0 {
		b.RegenTickMs = d.RegenTickMs
	}
	if b.EnergyPerTick <= 0 {
		b.EnergyPerTick = d.EnergyPerTick
	}
	if b.BurstTTLMs <= 0 {
		b.BurstTTLMs = d.BurstTTLMs
	}
	if b.CostGrowth <= 1 {
		b.CostGrowth = d.CostGrowth
	}
	if b.DailyBaseReward <= 0 {
		b.DailyBaseReward = d.DailyBaseReward
	}
	if b.DailyPerDayBonus < 0 {
		b.DailyPerDayBonus = d.DailyPerDayBonus
	}
	if b.DailyCapDays <= 0 {
		b.DailyCapDays = d.DailyCapDays
	}
	if b.ClaimWindowHours <= 0 {
		b.ClaimWindowHours = d.ClaimWindowHours
	}
	if b.CountdownTickMs <= 0 {
		b.CountdownTickMs = d.CountdownTickMs
	}
	if b.AutosaveMs <= 0 {
		b.AutosaveMs = d.AutosaveMs
	}
}
