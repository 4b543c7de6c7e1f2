package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)

	v := cfg.Valuation
	assert.Equal(t, 2, v.RampYears)
	assert.Equal(t, 0.02, v.PriceEscalation)
	assert.Equal(t, 0.08, v.DefaultDiscountRate)
	assert.Equal(t, 0.25, v.DefaultTaxRate)
	assert.Equal(t, 0.03, v.DefaultRoyaltyRate)
	assert.Equal(t, 15, v.DefaultMineLifeYears)
	assert.Equal(t, 20.0, v.ClosureCost)
	assert.Equal(t, 15.0, v.WorkingCapital)
	assert.Equal(t, 10.0, v.SustainingCapex)

	mc := v.MonteCarlo
	assert.Equal(t, 10000, mc.Trials)
	assert.Equal(t, int64(42), mc.Seed)
	assert.Equal(t, 4, mc.Workers)
	assert.Equal(t, 0.10, mc.CostStdDevPct)
	assert.Equal(t, 0.10, mc.HurdleRate)

	assert.Equal(t, 0.03, v.Kilburn.InflationRate)
}

func TestLoadWithoutConfigFile(t *testing.T) {
	// No config.yaml in the test working directory; defaults apply.
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10000, cfg.Valuation.MonteCarlo.Trials)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("MINEQUANT_SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestInitLoggerRejectsBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	assert.NoError(t, err)
}
