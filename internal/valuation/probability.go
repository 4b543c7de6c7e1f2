package valuation

import (
	"fmt"
	"math"
	"strings"

	"github.com/ridgeline-research/minequant/internal/model"
)

// stageProbabilities maps a development stage to the base success
// probability of each remaining gate on the way to production.
var stageProbabilities = map[string]map[string]float64{
	"grassroots": {
		"exploration_success": 0.10, "resource_definition": 0.30, "permitting_approval": 0.60,
		"financing_secured": 0.50, "construction_complete": 0.85, "production_ramp": 0.90,
	},
	"early_exploration": {
		"exploration_success": 0.25, "resource_definition": 0.45, "permitting_approval": 0.65,
		"financing_secured": 0.55, "construction_complete": 0.85, "production_ramp": 0.90,
	},
	"advanced_exploration": {
		"exploration_success": 0.50, "resource_definition": 0.65, "permitting_approval": 0.70,
		"financing_secured": 0.60, "construction_complete": 0.85, "production_ramp": 0.92,
	},
	"pre_feasibility": {
		"exploration_success": 0.80, "resource_definition": 0.85, "permitting_approval": 0.75,
		"financing_secured": 0.65, "construction_complete": 0.88, "production_ramp": 0.93,
	},
	"feasibility": {
		"exploration_success": 0.90, "resource_definition": 0.92, "permitting_approval": 0.80,
		"financing_secured": 0.70, "construction_complete": 0.90, "production_ramp": 0.95,
	},
	"permitted": {
		"exploration_success": 1.00, "resource_definition": 1.00, "permitting_approval": 0.95,
		"financing_secured": 0.75, "construction_complete": 0.92, "production_ramp": 0.95,
	},
	"construction": {
		"exploration_success": 1.00, "resource_definition": 1.00, "permitting_approval": 1.00,
		"financing_secured": 0.90, "construction_complete": 0.93, "production_ramp": 0.96,
	},
	"production": {
		"exploration_success": 1.00, "resource_definition": 1.00, "permitting_approval": 1.00,
		"financing_secured": 1.00, "construction_complete": 1.00, "production_ramp": 0.97,
	},
}

var jurisdictionAdjustments = map[string]float64{
	"tier_1": 1.0,
	"tier_2": 0.90,
	"tier_3": 0.75,
	"tier_4": 0.55,
}

var commodityRiskAdjustments = map[string]float64{
	"gold": 1.0, "silver": 0.95, "copper": 0.95, "lithium": 0.85,
	"nickel": 0.90, "zinc": 0.92, "uranium": 0.80, "rare_earth": 0.75,
}

var complexityAdjustments = map[string]float64{
	"simple": 1.0, "moderate": 0.92, "complex": 0.80, "highly_complex": 0.65,
}

// StageProbability is the adjusted chance of clearing one gate.
type StageProbability struct {
	Stage       string  `json:"stage"`
	Probability float64 `json:"probability"`
}

// ProbabilityResult is the probability-weighted DCF valuation: the base
// NPV multiplied by the cumulative chance of reaching production. It never
// recomputes cash flows; BaseNPV is the income DCF's NPV verbatim.
type ProbabilityResult struct {
	Insufficiency *Insufficiency `json:"insufficiency,omitempty"`

	BaseNPV               float64            `json:"base_npv"`
	RiskAdjustedNPV       float64            `json:"risk_adjusted_npv"`
	CumulativeProbability float64            `json:"cumulative_probability"`
	Stage                 string             `json:"stage"`
	StageProbabilities    []StageProbability `json:"stage_probabilities,omitempty"`
	RiskAdjustments       map[string]float64 `json:"risk_adjustments,omitempty"`
	Recommendation        Recommendation     `json:"recommendation"`
	InputsUsed            InputsUsed         `json:"inputs_used,omitempty"`
}

// Computed reports whether the method produced a valuation.
func (r *ProbabilityResult) Computed() bool { return r != nil && r.Insufficiency == nil }

// stageOrder fixes the gate sequence for reporting.
var stageOrder = []string{
	"exploration_success", "resource_definition", "permitting_approval",
	"financing_secured", "construction_complete", "production_ramp",
}

// ProbabilityDCF applies stage-gate success probabilities to the income
// DCF's computed NPV. When the income DCF reported insufficiency, the same
// missing set propagates — the method never values document-reported NPVs
// or recomputes cash flows on its own.
func ProbabilityDCF(inputs model.NormalizedInputs, base *DCFResult) *ProbabilityResult {
	if !base.Computed() {
		return &ProbabilityResult{Insufficiency: propagated("probability-weighted DCF", base.Insufficiency)}
	}
	if base.NPV <= 0 {
		return &ProbabilityResult{Insufficiency: &Insufficiency{
			Guidance: "cannot compute probability-weighted DCF: base NPV is zero or negative",
		}}
	}

	stage := canonicalStage(inputs.DevelopmentStage)
	jurAdj := lookupAdjustment(jurisdictionAdjustments, jurisdictionTier(inputs.Jurisdiction), 0.85)
	commAdj := lookupAdjustment(commodityRiskAdjustments, strings.ToLower(inputs.Commodity), 0.90)
	techAdj := lookupAdjustment(complexityAdjustments, canonicalComplexity(inputs.TechnicalComplexity), 0.90)

	base0 := stageProbabilities[stage]
	cumulative := 1.0
	probs := make([]StageProbability, 0, len(stageOrder))
	for _, gate := range stageOrder {
		adjusted := math.Min(base0[gate]*jurAdj*commAdj*techAdj, 0.99)
		cumulative *= adjusted
		probs = append(probs, StageProbability{Stage: gate, Probability: adjusted})
	}

	return &ProbabilityResult{
		BaseNPV:               base.NPV,
		RiskAdjustedNPV:       base.NPV * cumulative,
		CumulativeProbability: cumulative,
		Stage:                 stage,
		StageProbabilities:    probs,
		RiskAdjustments: map[string]float64{
			"jurisdiction": jurAdj,
			"commodity":    commAdj,
			"technical":    techAdj,
		},
		Recommendation: probabilityRecommendation(base.NPV, base.NPV*cumulative),
		InputsUsed:     InputsUsed{"base_npv": base.NPV},
	}
}

func probabilityRecommendation(baseNPV, riskAdjusted float64) Recommendation {
	switch {
	case riskAdjusted > baseNPV*0.5:
		return Recommendation{Text: "Strong buy - high probability of value realization", Color: "green"}
	case riskAdjusted > baseNPV*0.25:
		return Recommendation{Text: "Buy - moderate probability-adjusted upside", Color: "blue"}
	case riskAdjusted > baseNPV*0.10:
		return Recommendation{Text: "Hold - significant execution risk embedded", Color: "orange"}
	default:
		return Recommendation{Text: "High risk - consider only with portfolio diversification", Color: "red"}
	}
}

// canonicalStage normalizes a free-text development stage to a table key.
func canonicalStage(stage string) string {
	key := strings.ToLower(strings.TrimSpace(stage))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	if _, ok := stageProbabilities[key]; ok {
		return key
	}
	return "early_exploration"
}

// jurisdictionTier maps a free-text jurisdiction to a risk tier key.
func jurisdictionTier(jurisdiction string) string {
	j := strings.ToLower(jurisdiction)
	switch {
	case containsAny(j, "canada", "australia", "usa", "tier 1", "tier_1", "tier1"):
		return "tier_1"
	case containsAny(j, "chile", "peru", "mexico", "tier 2", "tier_2", "tier2"):
		return "tier_2"
	case containsAny(j, "tier 3", "tier_3", "tier3", "africa", "asia"):
		return "tier_3"
	case containsAny(j, "tier 4", "tier_4", "tier4"):
		return "tier_4"
	default:
		return "tier_2"
	}
}

func canonicalComplexity(complexity string) string {
	c := strings.ToLower(complexity)
	switch {
	case strings.Contains(c, "highly"):
		return "highly_complex"
	case containsAny(c, "complex", "difficult"):
		return "complex"
	case containsAny(c, "simple", "straightforward"):
		return "simple"
	default:
		return "moderate"
	}
}

func lookupAdjustment(table map[string]float64, key string, fallback float64) float64 {
	if v, ok := table[key]; ok {
		return v
	}
	return fallback
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func propagated(method string, upstream *Insufficiency) *Insufficiency {
	return &Insufficiency{
		Missing: upstream.Missing,
		Guidance: fmt.Sprintf(
			"cannot compute %s: income DCF did not produce a base NPV (%s)",
			method, strings.Join(upstream.Missing, ", "),
		),
	}
}
