package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_MatchesShippedBalance(t *testing.T) {
	bal := Default()

	assert.Equal(t, 1000, bal.StartEnergy)
	assert.Equal(t, 3, bal.EnergyPerTick)
	assert.Equal(t, 100*time.Millisecond, bal.RegenTick())
	assert.Equal(t, 24*time.Hour, bal.ClaimWindow())
	assert.Equal(t, 48*time.Hour, bal.MissCutoff())
	assert.Equal(t, 5*time.Second, bal.AutosaveEvery())
	assert.Equal(t, time.Second, bal.BurstTTL())
}

func TestClassic_SlowerRegen(t *testing.T) {
	bal := Classic()
	assert.Equal(t, 1, bal.EnergyPerTick)
	assert.Equal(t, Default().RegenTickMs, bal.RegenTickMs)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("ENERGY_PER_TICK", "7")
	t.Setenv("DAILY_PER_DAY_BONUS", "0")
	t.Setenv("CLAIM_WINDOW_HOURS", "12")

	bal := FromEnv()
	assert.Equal(t, 7, bal.EnergyPerTick)
	assert.Equal(t, 0, bal.DailyPerDayBonus)
	assert.Equal(t, 12*time.Hour, bal.ClaimWindow())
}

func TestFromEnv_IgnoresGarbage(t *testing.T) {
	t.Setenv("ENERGY_PER_TICK", "lots")
	bal := FromEnv()
	assert.Equal(t, 3, bal.EnergyPerTick)
}

func TestFromEnv_ClassicPreset(t *testing.T) {
	t.Setenv("BALANCE_PRESET", "classic")
	bal := FromEnv()
	assert.Equal(t, 1, bal.EnergyPerTick)
}

func TestFromEnv_OverridesApplyOnTopOfPreset(t *testing.T) {
	t.Setenv("BALANCE_PRESET", "classic")
	t.Setenv("DAILY_BASE_REWARD", "7777")
	t.Setenv("START_TAP_POWER", "2")

	bal := FromEnv()
	assert.Equal(t, 1, bal.EnergyPerTick)
	assert.Equal(t, 7777, bal.DailyBaseReward)
	assert.Equal(t, 2, bal.StartTapPower)
}

func TestLoad_PartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yml")
	require.NoError(t, os.WriteFile(path, []byte("daily_base_reward: 9000\nenergy_per_tick: 5\n"), 0o644))

	bal, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, bal.DailyBaseReward)
	assert.Equal(t, 5, bal.EnergyPerTick)
	// Unset fields come from defaults.
	assert.Equal(t, 1000, bal.StartMaxEnergy)
	assert.Equal(t, 1.5, bal.CostGrowth)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestServerValidate(t *testing.T) {
	ok := Server{Addr: ":8080", DBDialect: "sqlite"}
	require.NoError(t, ok.Validate())

	bad := Server{Addr: ":8080", DBDialect: "postgres"}
	require.Error(t, bad.Validate())

	bad = Server{Addr: ":8080", DBDialect: "oracle"}
	require.Error(t, bad.Validate())
}
