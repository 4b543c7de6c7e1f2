package valuation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgeline-research/minequant/internal/config"
	"github.com/ridgeline-research/minequant/internal/model"
)

func TestEngineRunsAllMethods(t *testing.T) {
	inputs := baseInputs()
	inputs.InitialCapex = model.Reported(30)
	inputs.ExplorationSpend = model.Reported(12)
	inputs.DevelopmentStage = "permitted"
	inputs.Jurisdiction = "Canada"

	set := NewEngine(config.Default().Valuation).Run(context.Background(), inputs)

	require.True(t, set.IncomeDCF.Computed())
	require.True(t, set.ProbabilityDCF.Computed())
	require.True(t, set.DecisionTree.Computed())
	require.True(t, set.MonteCarlo.Computed())
	require.True(t, set.Kilburn.Computed())
	assert.Equal(t, 5, set.ComputedCount())

	// The dependent methods consume the income DCF's NPV verbatim.
	assert.Equal(t, set.IncomeDCF.NPV, set.ProbabilityDCF.BaseNPV)
	assert.Equal(t, set.IncomeDCF.NPV, set.DecisionTree.TerminalValue)
}

func TestEnginePropagatesCoreInsufficiency(t *testing.T) {
	inputs := model.NormalizedInputs{
		ExplorationSpend: model.Reported(12),
	}
	set := NewEngine(config.Default().Valuation).Run(context.Background(), inputs)

	require.False(t, set.IncomeDCF.Computed())
	missing := set.IncomeDCF.Insufficiency.Missing

	// The NPV-dependent methods cite the same missing set, never their own.
	assert.Equal(t, missing, set.ProbabilityDCF.Insufficiency.Missing)
	assert.Equal(t, missing, set.DecisionTree.Insufficiency.Missing)

	// Kilburn is independent of the core and still computes.
	assert.True(t, set.Kilburn.Computed())
	assert.False(t, set.MonteCarlo.Computed())
	assert.Equal(t, 1, set.ComputedCount())
}
