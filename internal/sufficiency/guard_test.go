package sufficiency

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ridgeline-research/minequant/internal/model"
)

func TestCheckCoreAllPresent(t *testing.T) {
	inputs := model.NormalizedInputs{
		AnnualProduction: model.Reported(50000),
		CommodityPrice:   model.Reported(1900),
		OperatingCost:    model.Reported(950),
	}
	verdict := CheckCore(inputs)
	assert.True(t, verdict.Sufficient)
	assert.Empty(t, verdict.Missing)
}

func TestCheckCoreReportsEveryMissingField(t *testing.T) {
	verdict := CheckCore(model.NormalizedInputs{})
	assert.False(t, verdict.Sufficient)
	assert.ElementsMatch(t, []string{
		model.FieldAnnualProduction,
		model.FieldCommodityPrice,
		model.FieldOperatingCost,
	}, verdict.Missing)
}

func TestCheckCoreSingleMissingField(t *testing.T) {
	inputs := model.NormalizedInputs{
		AnnualProduction: model.Reported(50000),
		OperatingCost:    model.Reported(950),
	}
	verdict := CheckCore(inputs)
	assert.False(t, verdict.Sufficient)
	assert.Equal(t, []string{model.FieldCommodityPrice}, verdict.Missing)
}

func TestVerifiedZeroCostSatisfiesCore(t *testing.T) {
	inputs := model.NormalizedInputs{
		AnnualProduction: model.Reported(50000),
		CommodityPrice:   model.Reported(1900),
		OperatingCost:    model.VerifiedZero("byproduct"),
	}
	assert.True(t, CheckCore(inputs).Sufficient)
}

func TestMonteCarloNeedsCapex(t *testing.T) {
	inputs := model.NormalizedInputs{
		AnnualProduction: model.Reported(50000),
		CommodityPrice:   model.Reported(1900),
		OperatingCost:    model.Reported(950),
	}
	verdict := Check(inputs, MonteCarloFields)
	assert.False(t, verdict.Sufficient)
	assert.Equal(t, []string{model.FieldInitialCapex}, verdict.Missing)

	inputs.InitialCapex = model.Reported(400)
	assert.True(t, Check(inputs, MonteCarloFields).Sufficient)
}

func TestCheckKilburn(t *testing.T) {
	assert.False(t, CheckKilburn(model.NormalizedInputs{}).Sufficient)

	spend := model.NormalizedInputs{ExplorationSpend: model.Reported(12)}
	assert.True(t, CheckKilburn(spend).Sufficient)

	drill := model.NormalizedInputs{DrillMeters: model.Reported(25000)}
	assert.True(t, CheckKilburn(drill).Sufficient)

	area := model.NormalizedInputs{PropertyAreaKm2: model.Reported(45)}
	assert.True(t, CheckKilburn(area).Sufficient)
}
