package valuation

import (
	"math"

	"github.com/ridgeline-research/minequant/internal/model"
)

// gate is one stage of the decision tree: the cost to attempt it, its
// duration, and the chance of advancing. Costs are in $ millions.
type gate struct {
	Name        string
	Cost        float64
	Duration    float64
	SuccessProb float64
}

// stageGates maps a development stage to the remaining gates between it
// and production.
var stageGates = map[string][]gate{
	"grassroots": {
		{"Initial Exploration", 2.0, 2, 0.15},
		{"Target Generation", 5.0, 2, 0.25},
		{"Drilling Program", 15.0, 2, 0.30},
		{"Resource Definition", 25.0, 2, 0.50},
		{"Preliminary Economic Assessment", 3.0, 1, 0.60},
		{"Pre-Feasibility Study", 10.0, 1, 0.70},
		{"Feasibility Study", 25.0, 1.5, 0.80},
		{"Permitting", 15.0, 2, 0.75},
		{"Financing", 5.0, 0.5, 0.70},
		{"Construction", 250.0, 2, 0.90},
	},
	"early_exploration": {
		{"Target Generation", 5.0, 1.5, 0.30},
		{"Drilling Program", 15.0, 2, 0.35},
		{"Resource Definition", 20.0, 1.5, 0.55},
		{"Preliminary Economic Assessment", 3.0, 1, 0.65},
		{"Pre-Feasibility Study", 10.0, 1, 0.72},
		{"Feasibility Study", 25.0, 1.5, 0.82},
		{"Permitting", 15.0, 2, 0.78},
		{"Financing", 5.0, 0.5, 0.72},
		{"Construction", 250.0, 2, 0.92},
	},
	"advanced_exploration": {
		{"Infill Drilling", 20.0, 1.5, 0.60},
		{"Resource Update", 5.0, 0.5, 0.75},
		{"Preliminary Economic Assessment", 3.0, 0.75, 0.70},
		{"Pre-Feasibility Study", 10.0, 1, 0.75},
		{"Feasibility Study", 25.0, 1.5, 0.85},
		{"Permitting", 15.0, 2, 0.80},
		{"Financing", 5.0, 0.5, 0.75},
		{"Construction", 250.0, 2, 0.93},
	},
	"pre_feasibility": {
		{"Complete Pre-Feasibility", 8.0, 0.75, 0.80},
		{"Feasibility Study", 25.0, 1.5, 0.88},
		{"Permitting", 15.0, 2, 0.82},
		{"Financing", 5.0, 0.5, 0.78},
		{"Construction", 250.0, 2, 0.94},
	},
	"feasibility": {
		{"Complete Feasibility", 15.0, 1, 0.90},
		{"Permitting", 15.0, 2, 0.85},
		{"Financing", 5.0, 0.5, 0.80},
		{"Construction", 250.0, 2, 0.95},
	},
	"permitted": {
		{"Financing", 5.0, 0.5, 0.82},
		{"Construction", 250.0, 2, 0.96},
	},
	"construction": {
		{"Complete Construction", 150.0, 1.5, 0.97},
	},
	"production": nil,
}

// StageAnalysis is the per-gate breakdown of the decision tree.
type StageAnalysis struct {
	Name                   string  `json:"name"`
	Cost                   float64 `json:"cost"`
	DurationYears          float64 `json:"duration_years"`
	SuccessProbability     float64 `json:"success_probability"`
	CumulativeProbability  float64 `json:"cumulative_probability"`
	ExpectedValueOnSuccess float64 `json:"expected_value_on_success"`
	StageEMV               float64 `json:"stage_emv"`
	Proceed                bool    `json:"proceed"`
}

// EMVResult is the decision-tree valuation: probability-weighted payoffs
// anchored to the income DCF's NPV at each terminal node, rolled back to
// an expected monetary value.
type EMVResult struct {
	Insufficiency *Insufficiency `json:"insufficiency,omitempty"`

	EMV                     float64         `json:"emv"`
	TerminalValue           float64         `json:"terminal_value"`
	ProbabilityToProduction float64         `json:"probability_to_production"`
	TotalInvestment         float64         `json:"total_investment"`
	TimeToProduction        float64         `json:"time_to_production"`
	Stages                  []StageAnalysis `json:"stages,omitempty"`
	Recommendation          Recommendation  `json:"recommendation"`
	InputsUsed              InputsUsed      `json:"inputs_used,omitempty"`
}

// Computed reports whether the method produced a valuation.
func (r *EMVResult) Computed() bool { return r != nil && r.Insufficiency == nil }

// DecisionTreeEMV rolls the remaining stage gates back from a terminal
// value equal to the income DCF's computed NPV. Insufficiency from the
// income DCF propagates with the same missing set.
func DecisionTreeEMV(inputs model.NormalizedInputs, base *DCFResult, discountRate float64) *EMVResult {
	if !base.Computed() {
		return &EMVResult{Insufficiency: propagated("decision tree EMV", base.Insufficiency)}
	}
	if base.NPV <= 0 {
		return &EMVResult{Insufficiency: &Insufficiency{
			Guidance: "cannot compute decision tree EMV: terminal value (base NPV) is zero or negative",
		}}
	}

	stage := canonicalStage(inputs.DevelopmentStage)
	gates := stageGates[stage]
	terminal := base.NPV
	scale := costScale(valueOr(inputs.InitialCapex, 0))

	if len(gates) == 0 {
		return &EMVResult{
			EMV:                     terminal,
			TerminalValue:           terminal,
			ProbabilityToProduction: 1.0,
			Recommendation:          Recommendation{Text: "Already in production - value equals operating project NPV", Color: "green"},
			InputsUsed:              InputsUsed{"base_npv": terminal},
		}
	}

	var (
		stages         []StageAnalysis
		cumulativeProb = 1.0
		cumulativeTime float64
		totalCost      float64
	)
	for i, g := range gates {
		cost := g.Cost * scale
		totalCost += cost
		cumulativeTime += g.Duration
		cumulativeProb *= g.SuccessProb

		// Value on clearing this gate: terminal value weighted by the
		// remaining gates' probabilities, discounted over the full path.
		remainingProb := 1.0
		remainingTime := 0.0
		for _, later := range gates[i+1:] {
			remainingProb *= later.SuccessProb
			remainingTime += later.Duration
		}
		discount := math.Pow(1+discountRate, cumulativeTime+remainingTime)
		valueOnSuccess := terminal * remainingProb / discount

		stageEMV := valueOnSuccess*g.SuccessProb - cost
		stages = append(stages, StageAnalysis{
			Name:                   g.Name,
			Cost:                   cost,
			DurationYears:          g.Duration,
			SuccessProbability:     g.SuccessProb,
			CumulativeProbability:  cumulativeProb,
			ExpectedValueOnSuccess: valueOnSuccess,
			StageEMV:               stageEMV,
			Proceed:                stageEMV > 0,
		})
	}

	// Backward induction over the whole tree: expected failure losses at
	// each gate plus the discounted success payoff at the leaf.
	emv := 0.0
	runningProb := 1.0
	runningTime := 0.0
	for _, g := range gates {
		runningTime += g.Duration
		discount := math.Pow(1+discountRate, runningTime)
		failureLoss := -(g.Cost * scale * runningProb) / discount
		emv += failureLoss * (1 - g.SuccessProb)
		runningProb *= g.SuccessProb
	}
	emv += terminal * runningProb / math.Pow(1+discountRate, runningTime)

	return &EMVResult{
		EMV:                     emv,
		TerminalValue:           terminal,
		ProbabilityToProduction: cumulativeProb,
		TotalInvestment:         totalCost,
		TimeToProduction:        cumulativeTime,
		Stages:                  stages,
		Recommendation:          emvRecommendation(emv, totalCost),
		InputsUsed:              InputsUsed{"base_npv": terminal, model.FieldDiscountRate: discountRate},
	}
}

// costScale adapts the default gate costs to the project's capital scale.
func costScale(initialCapex float64) float64 {
	switch {
	case initialCapex > 500:
		return initialCapex / 250
	case initialCapex > 0 && initialCapex < 100:
		return 0.5
	default:
		return 1.0
	}
}

func emvRecommendation(emv, totalInvestment float64) Recommendation {
	switch {
	case emv > totalInvestment*0.5:
		return Recommendation{Text: "High value opportunity - EMV significantly exceeds required investment", Color: "green"}
	case emv > totalInvestment*0.2:
		return Recommendation{Text: "Positive EMV - expected value exceeds risk-adjusted costs", Color: "blue"}
	case emv > 0:
		return Recommendation{Text: "Marginal opportunity - positive but low EMV relative to investment", Color: "orange"}
	default:
		return Recommendation{Text: "Negative EMV - expected losses exceed potential gains", Color: "red"}
	}
}
