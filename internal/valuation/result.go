package valuation

// Method identifies a valuation methodology.
type Method string

const (
	MethodIncomeDCF       Method = "income_dcf"
	MethodProbabilityDCF  Method = "probability_dcf"
	MethodDecisionTreeEMV Method = "decision_tree_emv"
	MethodMonteCarlo      Method = "monte_carlo"
	MethodKilburn         Method = "kilburn"
)

// Methods lists all methodologies in execution order.
var Methods = []Method{
	MethodIncomeDCF,
	MethodProbabilityDCF,
	MethodDecisionTreeEMV,
	MethodMonteCarlo,
	MethodKilburn,
}

// Insufficiency marks a method that refused to run for lack of mandatory
// inputs. Missing names every blocking field; Guidance is a human-readable
// sentence for the consolidated report.
type Insufficiency struct {
	Missing  []string `json:"missing"`
	Guidance string   `json:"guidance"`
}

// Recommendation is a qualitative read of a computed result, carried
// through for report rendering.
type Recommendation struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

// InputsUsed records exactly which normalized input values a computed
// result consumed, keyed by canonical field name.
type InputsUsed map[string]float64
