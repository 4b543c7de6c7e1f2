package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgeline-research/minequant/internal/model"
)

func num(v float64) *float64 { return &v }

func factsFrom(m map[string]any) model.ExtractedFacts {
	var facts []model.Fact
	for k, v := range m {
		switch val := v.(type) {
		case float64:
			facts = append(facts, model.Fact{Key: k, Number: num(val)})
		case int:
			facts = append(facts, model.Fact{Key: k, Number: num(float64(val))})
		case string:
			facts = append(facts, model.Fact{Key: k, Text: val})
		}
	}
	return model.NewExtractedFacts(facts)
}

func TestPassthroughReported(t *testing.T) {
	n := Normalize(factsFrom(map[string]any{
		"annual_production": 50000,
		"commodity_price":   1900.0,
		"operating_cost":    950.0,
		"mine_life":         8,
	}))

	assert.Equal(t, model.OriginReported, n.AnnualProduction.Origin)
	assert.Equal(t, 50000.0, n.AnnualProduction.Value)
	assert.Equal(t, model.OriginReported, n.CommodityPrice.Origin)
	assert.Equal(t, model.OriginReported, n.OperatingCost.Origin)
	assert.Equal(t, 8.0, n.MineLife.Value)
	assert.Empty(t, n.Derivations)
}

func TestDerivePriceFromRevenue(t *testing.T) {
	// 95,000,000 / 50,000 = 1900 exactly.
	n := Normalize(factsFrom(map[string]any{
		"annual_production": 50000,
		"annual_revenue":    95_000_000.0,
		"operating_cost":    950.0,
	}))

	require.True(t, n.CommodityPrice.Resolved())
	assert.Equal(t, model.OriginDerived, n.CommodityPrice.Origin)
	assert.InDelta(t, 1900.0, n.CommodityPrice.Value, 1e-9)
	assert.Contains(t, n.CommodityPrice.Note, "annual_revenue")
	assert.Contains(t, n.CommodityPrice.Note, "annual_production")
}

func TestDeriveProductionFromLOM(t *testing.T) {
	n := Normalize(factsFrom(map[string]any{
		"life_of_mine_production": 400000.0,
		"mine_life":               8,
	}))

	require.True(t, n.AnnualProduction.Resolved())
	assert.Equal(t, model.OriginDerived, n.AnnualProduction.Origin)
	assert.InDelta(t, 50000.0, n.AnnualProduction.Value, 1e-9)
	assert.Contains(t, n.AnnualProduction.Note, "life_of_mine_production")
	assert.Contains(t, n.AnnualProduction.Note, "mine_life")
}

func TestDeriveProductionFromThroughput(t *testing.T) {
	// 1,000,000 t/yr at 2 g/t and 90% recovery = 1,800,000 units.
	n := Normalize(factsFrom(map[string]any{
		"throughput": 1_000_000.0,
		"grade":      2.0,
		"recovery":   0.90,
	}))

	require.True(t, n.AnnualProduction.Resolved())
	assert.InDelta(t, 1_800_000.0, n.AnnualProduction.Value, 1e-6)
}

func TestRecoveryPercentConversion(t *testing.T) {
	n := Normalize(factsFrom(map[string]any{"recovery": 90.0}))
	require.True(t, n.Recovery.Resolved())
	assert.InDelta(t, 0.90, n.Recovery.Value, 1e-9)
	assert.Equal(t, model.OriginDerived, n.Recovery.Origin)

	// Over 100 is not a recovery in any unit.
	n = Normalize(factsFrom(map[string]any{"recovery": 150.0}))
	assert.False(t, n.Recovery.Resolved())
}

func TestRatePercentConversion(t *testing.T) {
	n := Normalize(factsFrom(map[string]any{
		"discount_rate": 8.0,
		"tax_rate":      0.25,
	}))
	assert.InDelta(t, 0.08, n.DiscountRate.Value, 1e-9)
	assert.Equal(t, model.OriginDerived, n.DiscountRate.Origin)
	assert.InDelta(t, 0.25, n.TaxRate.Value, 1e-9)
	assert.Equal(t, model.OriginReported, n.TaxRate.Origin)
}

func TestOperatingCostPrecedence(t *testing.T) {
	// Reported cash cost wins over AISC.
	n := Normalize(factsFrom(map[string]any{
		"operating_cost":         950.0,
		"all_in_sustaining_cost": 1150.0,
	}))
	assert.Equal(t, 950.0, n.OperatingCost.Value)
	assert.Equal(t, model.OriginReported, n.OperatingCost.Origin)

	// AISC substitutes when cash cost is absent.
	n = Normalize(factsFrom(map[string]any{
		"all_in_sustaining_cost": 1150.0,
	}))
	require.True(t, n.OperatingCost.Resolved())
	assert.Equal(t, 1150.0, n.OperatingCost.Value)
	assert.Equal(t, model.OriginDerived, n.OperatingCost.Origin)
	assert.Contains(t, n.OperatingCost.Note, "all_in_sustaining_cost")

	// Total opex over production is the last resort.
	n = Normalize(factsFrom(map[string]any{
		"annual_production": 50000,
		"annual_opex":       47_500_000.0,
	}))
	require.True(t, n.OperatingCost.Resolved())
	assert.InDelta(t, 950.0, n.OperatingCost.Value, 1e-9)
}

func TestVerifiedZeroCost(t *testing.T) {
	n := Normalize(factsFrom(map[string]any{
		"zero_cost_byproduct_verified": "true",
		"annual_production":            50000,
	}))
	require.True(t, n.OperatingCost.Resolved())
	assert.Equal(t, model.OriginVerifiedZero, n.OperatingCost.Origin)
	assert.Equal(t, 0.0, n.OperatingCost.Value)
}

func TestPlainZeroNeverResolves(t *testing.T) {
	n := Normalize(factsFrom(map[string]any{
		"annual_production": 0.0,
		"commodity_price":   0.0,
		"operating_cost":    0.0,
	}))
	assert.False(t, n.AnnualProduction.Resolved())
	assert.False(t, n.CommodityPrice.Resolved())
	assert.False(t, n.OperatingCost.Resolved())
}

func TestGeoRatingsFromFacts(t *testing.T) {
	n := Normalize(factsFrom(map[string]any{
		"regional_prospectivity":  3,
		"project_maturity_score":  2,
		"local_geology_score":     4,
		"analytical_data_quality": 7, // out of range, treated as unrated
	}))
	assert.Equal(t, 3, n.Ratings.RegionalProspectivity)
	assert.Equal(t, 2, n.Ratings.ProjectMaturity)
	assert.Equal(t, 4, n.Ratings.LocalGeology)
	assert.Equal(t, 0, n.Ratings.AnalyticalData)
}

func TestContextPassthrough(t *testing.T) {
	n := Normalize(factsFrom(map[string]any{
		"primary_commodity": "gold",
		"development_stage": "feasibility",
		"jurisdiction":      "Canada",
	}))
	assert.Equal(t, "gold", n.Commodity)
	assert.Equal(t, "feasibility", n.DevelopmentStage)
	assert.Equal(t, "Canada", n.Jurisdiction)
}
