package config

import (
	"os"
	"strconv"
)

// FromEnv loads balance configuration from environment variables
// Falls back to defaults if variables are not set
func FromEnv() Balance {
	cfg := Default()

	// The preset is the baseline; explicit variables override it.
	switch os.Getenv("BALANCE_PRESET") {
	case "classic":
		cfg = Classic()
	}

	if val := getEnvInt("REGEN_TICK_MS"); val > 0 {
		cfg.RegenTickMs = val
	}
	if val := getEnvInt("ENERGY_PER_TICK"); val > 0 {
		cfg.EnergyPerTick = val
	}
	if val := getEnvInt("START_ENERGY"); val > 0 {
		cfg.StartEnergy = val
	}
	if val := getEnvInt("START_MAX_ENERGY"); val > 0 {
		cfg.StartMaxEnergy = val
	}
	if val := getEnvInt("START_TAP_POWER"); val > 0 {
		cfg.StartTapPower = val
	}
	if val := getEnvInt("DAILY_BASE_REWARD"); val > 0 {
		cfg.DailyBaseReward = val
	}
	if val := getEnvInt("DAILY_PER_DAY_BONUS"); val >= 0 {
		cfg.DailyPerDayBonus = val
	}
	if val := getEnvInt("DAILY_CAP_DAYS"); val > 0 {
		cfg.DailyCapDays = val
	}
	if val := getEnvInt("CLAIM_WINDOW_HOURS"); val > 0 {
		cfg.ClaimWindowHours = val
	}
	if val := getEnvInt("AUTOSAVE_MS"); val > 0 {
		cfg.AutosaveMs = val
	}

	return cfg
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return -1
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return -1
	}
	return num
}
