// Package sufficiency validates that the minimum input set for an
// operation is resolved before any valuation method runs. The guard never
// fabricates numbers: a field counts only when present, finite, and
// strictly positive (or an explicitly verified zero operating cost).
package sufficiency

import (
	"github.com/ridgeline-research/minequant/internal/model"
)

// CoreFields are the three mandatory inputs no cash-flow valuation may
// run without.
var CoreFields = []string{
	model.FieldAnnualProduction,
	model.FieldCommodityPrice,
	model.FieldOperatingCost,
}

// MonteCarloFields extends the core set with the capital base the trial
// NPVs are computed against.
var MonteCarloFields = []string{
	model.FieldAnnualProduction,
	model.FieldCommodityPrice,
	model.FieldOperatingCost,
	model.FieldInitialCapex,
}

// Check validates every field in required against the normalized inputs
// and reports all unresolved fields at once, so the caller can render one
// consolidated report instead of one error per method.
func Check(inputs model.NormalizedInputs, required []string) model.SufficiencyVerdict {
	var missing []string
	for _, name := range required {
		if !inputs.Field(name).Resolved() {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return model.Insufficient(missing...)
	}
	return model.Sufficient()
}

// CheckCore validates the three mandatory core inputs.
func CheckCore(inputs model.NormalizedInputs) model.SufficiencyVerdict {
	return Check(inputs, CoreFields)
}

// CheckKilburn validates the cost-approach input set: exploration spend
// (or drill meters as a proxy for it) or a property area. The method needs
// none of the production/price/cost core.
func CheckKilburn(inputs model.NormalizedInputs) model.SufficiencyVerdict {
	hasSpend := inputs.ExplorationSpend.Resolved() || inputs.DrillMeters.Resolved()
	hasArea := inputs.PropertyAreaKm2.Resolved()
	if hasSpend || hasArea {
		return model.Sufficient()
	}
	return model.Insufficient(
		model.FieldExplorationSpend,
		model.FieldPropertyAreaKm2,
	)
}
