package analysis

import (
	"sort"

	"github.com/ridgeline-research/minequant/internal/model"
	"github.com/ridgeline-research/minequant/internal/valuation"
)

// MissingInput is one field blocking at least one valuation method, with
// a human-readable label for report rendering.
type MissingInput struct {
	Field          string             `json:"field"`
	Label          string             `json:"label"`
	BlockedMethods []valuation.Method `json:"blocked_methods"`
}

// fieldLabels renders canonical field names for the missing-inputs report.
var fieldLabels = map[string]string{
	model.FieldAnnualProduction: "Annual Production (oz/year or tonnes/year)",
	model.FieldCommodityPrice:   "Commodity Price (USD per unit)",
	model.FieldOperatingCost:    "Operating Cost or AISC (USD per unit)",
	model.FieldMineLife:         "Mine Life (years)",
	model.FieldInitialCapex:     "Initial Capital Expenditure ($M)",
	model.FieldDiscountRate:     "Discount Rate (fraction or percent)",
	model.FieldExplorationSpend: "Historical Exploration Expenditure ($M)",
	model.FieldPropertyAreaKm2:  "Property Area (square kilometers)",
}

// missingInputs de-duplicates blocking fields across all methods, so the
// user sees exactly what additional document content would unlock a
// fuller analysis.
func missingInputs(set *valuation.Set) []MissingInput {
	blocked := make(map[string][]valuation.Method)
	collect := func(method valuation.Method, ins *valuation.Insufficiency) {
		if ins == nil {
			return
		}
		for _, field := range ins.Missing {
			blocked[field] = append(blocked[field], method)
		}
	}
	collect(valuation.MethodIncomeDCF, set.IncomeDCF.Insufficiency)
	collect(valuation.MethodProbabilityDCF, set.ProbabilityDCF.Insufficiency)
	collect(valuation.MethodDecisionTreeEMV, set.DecisionTree.Insufficiency)
	collect(valuation.MethodMonteCarlo, set.MonteCarlo.Insufficiency)
	collect(valuation.MethodKilburn, set.Kilburn.Insufficiency)

	fields := make([]string, 0, len(blocked))
	for field := range blocked {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	report := make([]MissingInput, 0, len(fields))
	for _, field := range fields {
		label := fieldLabels[field]
		if label == "" {
			label = field
		}
		report = append(report, MissingInput{
			Field:          field,
			Label:          label,
			BlockedMethods: blocked[field],
		})
	}
	return report
}
