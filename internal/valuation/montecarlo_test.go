package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgeline-research/minequant/internal/config"
	"github.com/ridgeline-research/minequant/internal/model"
)

func monteCarloInputs() model.NormalizedInputs {
	return model.NormalizedInputs{
		AnnualProduction: model.Reported(100000),
		CommodityPrice:   model.Reported(2000),
		OperatingCost:    model.Reported(1000),
		InitialCapex:     model.Reported(500),
		MineLife:         model.Reported(15),
		DiscountRate:     model.Reported(0.08),
		Commodity:        "gold",
	}
}

func TestMonteCarloDeterministicWithFixedSeed(t *testing.T) {
	cfg := config.Default().Valuation

	first := MonteCarlo(monteCarloInputs(), cfg)
	second := MonteCarlo(monteCarloInputs(), cfg)

	require.True(t, first.Computed())
	require.True(t, second.Computed())
	assert.Equal(t, first.NPV, second.NPV, "fixed seed must reproduce the distribution exactly")
	assert.Equal(t, first.Prices, second.Prices)
}

func TestMonteCarloDeterministicAcrossWorkerCounts(t *testing.T) {
	single := config.Default().Valuation
	single.MonteCarlo.Workers = 1
	parallel := config.Default().Valuation
	parallel.MonteCarlo.Workers = 8

	a := MonteCarlo(monteCarloInputs(), single)
	b := MonteCarlo(monteCarloInputs(), parallel)

	require.True(t, a.Computed())
	assert.Equal(t, a.NPV, b.NPV, "per-trial seeding must make worker count irrelevant")
}

func TestMonteCarloVolatilityIncreasesDownsideRisk(t *testing.T) {
	// Sweep well past the commodity table's range. The high end is where a
	// missing lognormal drift correction would inflate the mean and let
	// P(NPV<0) saturate and reverse.
	vols := []float64{0.05, 0.15, 0.30, 0.40, 0.50}

	results := make([]*MonteCarloResult, len(vols))
	for i, vol := range vols {
		cfg := config.Default().Valuation
		cfg.MonteCarlo.Volatility = vol
		results[i] = MonteCarlo(monteCarloInputs(), cfg)
		require.True(t, results[i].Computed())
	}

	for i := 1; i < len(results); i++ {
		assert.Greater(t, results[i-1].NPV.ProbPositive, results[i].NPV.ProbPositive,
			"P(NPV<0) must grow with injected price volatility (vol %.2f vs %.2f)",
			vols[i-1], vols[i])
	}
	assert.Greater(t, results[len(results)-1].NPV.StdDev, results[0].NPV.StdDev)
}

func TestMonteCarloDistributionShape(t *testing.T) {
	result := MonteCarlo(monteCarloInputs(), config.Default().Valuation)

	require.True(t, result.Computed())
	assert.Equal(t, 10000, result.Trials)
	assert.Equal(t, 0.15, result.Volatility, "gold volatility table value")

	d := result.NPV
	assert.LessOrEqual(t, d.P5, d.P10)
	assert.LessOrEqual(t, d.P10, d.P25)
	assert.LessOrEqual(t, d.P25, d.P50)
	assert.LessOrEqual(t, d.P50, d.P75)
	assert.LessOrEqual(t, d.P75, d.P90)
	assert.Equal(t, d.P5, result.VaR5)
	assert.GreaterOrEqual(t, d.ProbPositive, d.ProbExceedHurdle,
		"hurdle threshold sits above zero for a positive capex")

	assert.Equal(t, 2000.0, result.Prices.Initial)
	assert.Greater(t, result.Prices.P90Final, result.Prices.P10Final)
	assert.GreaterOrEqual(t, result.Prices.P10Final, 200.0, "floor at 10% of spot")
}

func TestMonteCarloInsufficientWithoutCapex(t *testing.T) {
	inputs := monteCarloInputs()
	inputs.InitialCapex = model.Quantity{}

	result := MonteCarlo(inputs, config.Default().Valuation)
	require.False(t, result.Computed())
	assert.Equal(t, []string{model.FieldInitialCapex}, result.Insufficiency.Missing)
}

func TestMonteCarloCommodityVolatilityFallback(t *testing.T) {
	inputs := monteCarloInputs()
	inputs.Commodity = "tungsten" // not in the table

	result := MonteCarlo(inputs, config.Default().Valuation)
	require.True(t, result.Computed())
	assert.Equal(t, defaultVolatility, result.Volatility)
}

func TestPercentile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50}
	assert.Equal(t, 10.0, percentile(sorted, 0))
	assert.Equal(t, 30.0, percentile(sorted, 50))
	assert.Equal(t, 50.0, percentile(sorted, 100))
	assert.InDelta(t, 15.0, percentile(sorted, 12.5), 1e-9)
	assert.Equal(t, 0.0, percentile(nil, 50))
}
