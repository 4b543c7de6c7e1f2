// Package normalize turns raw extracted facts into the fixed numeric
// schema the valuation and scoring engines read. Missing core quantities
// are derived from related fields where mathematically sound; every
// derivation carries a note naming its source fields and formula. Fields
// that cannot be derived stay absent — never defaulted to zero.
package normalize

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ridgeline-research/minequant/internal/model"
)

// Normalize produces NormalizedInputs from extracted facts. Pure: the
// facts record is read-only and the result is freshly built.
func Normalize(facts model.ExtractedFacts) model.NormalizedInputs {
	var n model.NormalizedInputs
	note := func(format string, args ...any) {
		n.Derivations = append(n.Derivations, fmt.Sprintf(format, args...))
	}

	// Pass-through context and secondary quantities first; the core
	// derivation chains below may consume them.
	n.Commodity = facts.Text("primary_commodity")
	n.DevelopmentStage = facts.Text("development_stage")
	n.Jurisdiction = facts.Text("jurisdiction")
	n.TechnicalComplexity = facts.Text("technical_complexity")

	n.MineLife = reported(facts, model.FieldMineLife)
	n.Throughput = reported(facts, model.FieldThroughput)
	n.Grade = reported(facts, model.FieldGrade)
	n.Recovery = normalizeRecovery(facts, &n)
	n.InitialCapex = reported(facts, model.FieldInitialCapex)
	n.SustainingCapex = reported(facts, model.FieldSustainingCapex)
	n.DiscountRate = normalizeRate(facts, model.FieldDiscountRate, &n)
	n.TaxRate = normalizeRate(facts, model.FieldTaxRate, &n)
	n.RoyaltyRate = normalizeRate(facts, model.FieldRoyaltyRate, &n)
	n.AnnualRevenue = reported(facts, model.FieldAnnualRevenue)
	n.AnnualOpex = reported(facts, model.FieldAnnualOpex)
	n.ExplorationSpend = reported(facts, model.FieldExplorationSpend)
	n.DrillMeters = reported(facts, model.FieldDrillMeters)
	n.PropertyAreaKm2 = reported(facts, model.FieldPropertyAreaKm2)

	n.Ratings = model.GeoRatings{
		RegionalProspectivity: rating(facts, model.FieldRegionalProspectivity),
		ProjectMaturity:       rating(facts, model.FieldProjectMaturity),
		LocalGeology:          rating(facts, model.FieldLocalGeology),
		AnalyticalData:        rating(facts, model.FieldAnalyticalData),
	}

	n.AnnualProduction = deriveAnnualProduction(facts, n, note)
	n.CommodityPrice = deriveCommodityPrice(facts, n, note)
	n.OperatingCost = deriveOperatingCost(facts, n, note)

	return n
}

// reported lifts a strictly positive extracted number into a reported
// quantity. Zero and negative values are treated as unresolved: a reported
// zero is indistinguishable from a failed extraction upstream.
func reported(facts model.ExtractedFacts, key string) model.Quantity {
	if v, ok := facts.PositiveNumber(key); ok {
		return model.Reported(v)
	}
	return model.Quantity{}
}

// deriveAnnualProduction resolves annual production.
// Priority: reported → life_of_mine_production / mine_life →
// throughput × grade × recovery.
func deriveAnnualProduction(facts model.ExtractedFacts, n model.NormalizedInputs, note func(string, ...any)) model.Quantity {
	if q := reported(facts, model.FieldAnnualProduction); q.Resolved() {
		return q
	}

	// 1. Life-of-mine production spread over the mine life.
	if lom, ok := facts.PositiveNumber(model.FieldLOMProduction); ok {
		if n.MineLife.Resolved() && n.MineLife.Value > 0 {
			v := lom / n.MineLife.Value
			msg := fmt.Sprintf("derived annual_production (%.0f) from life_of_mine_production / mine_life", v)
			note("%s", msg)
			return model.Derived(v, msg)
		}
	}

	// 2. Throughput × grade × recovery, with recovery as a fraction.
	if n.Throughput.Resolved() && n.Grade.Resolved() && n.Recovery.Resolved() &&
		n.Recovery.Value > 0 && n.Recovery.Value <= 1 {
		v := n.Throughput.Value * n.Grade.Value * n.Recovery.Value
		msg := fmt.Sprintf("derived annual_production (%.0f) from throughput * grade * recovery", v)
		note("%s", msg)
		return model.Derived(v, msg)
	}

	zap.L().Debug("normalize: annual_production unresolved, no derivation path")
	return model.Quantity{}
}

// deriveCommodityPrice resolves the commodity price.
// Priority: reported → commodity_price_assumption →
// annual_revenue / annual_production.
func deriveCommodityPrice(facts model.ExtractedFacts, n model.NormalizedInputs, note func(string, ...any)) model.Quantity {
	if q := reported(facts, model.FieldCommodityPrice); q.Resolved() {
		return q
	}

	// 1. A stated price assumption stands in for the price.
	if v, ok := facts.PositiveNumber(model.FieldPriceAssumption); ok {
		msg := fmt.Sprintf("derived commodity_price (%.2f) from commodity_price_assumption", v)
		note("%s", msg)
		return model.Derived(v, msg)
	}

	// 2. Implied price from revenue, once production is resolved.
	if n.AnnualRevenue.Resolved() && n.AnnualProduction.Resolved() && n.AnnualProduction.Value > 0 {
		v := n.AnnualRevenue.Value / n.AnnualProduction.Value
		msg := fmt.Sprintf("derived commodity_price (%.2f) from annual_revenue / annual_production", v)
		note("%s", msg)
		return model.Derived(v, msg)
	}

	zap.L().Debug("normalize: commodity_price unresolved, no derivation path")
	return model.Quantity{}
}

// deriveOperatingCost resolves the per-unit operating cost slot.
// Precedence: reported operating_cost → reported AISC (substitute for the
// same slot) → annual_opex / annual_production. A verified zero-cost
// byproduct flag resolves the slot to an explicit zero.
func deriveOperatingCost(facts model.ExtractedFacts, n model.NormalizedInputs, note func(string, ...any)) model.Quantity {
	if flagged(facts, model.FieldZeroCostVerified) {
		msg := "operating_cost confirmed zero: verified zero-cost byproduct scenario"
		note("%s", msg)
		return model.VerifiedZero(msg)
	}

	if q := reported(facts, model.FieldOperatingCost); q.Resolved() {
		return q
	}

	// 1. AISC fills the same mandatory slot when cash cost is missing.
	if v, ok := facts.PositiveNumber(model.FieldAISC); ok {
		msg := fmt.Sprintf("derived operating_cost (%.2f) from all_in_sustaining_cost (substitute)", v)
		note("%s", msg)
		return model.Derived(v, msg)
	}

	// 2. Implied unit cost from total opex, once production is resolved.
	if n.AnnualOpex.Resolved() && n.AnnualProduction.Resolved() && n.AnnualProduction.Value > 0 {
		v := n.AnnualOpex.Value / n.AnnualProduction.Value
		msg := fmt.Sprintf("derived operating_cost (%.2f) from annual_opex / annual_production", v)
		note("%s", msg)
		return model.Derived(v, msg)
	}

	zap.L().Debug("normalize: operating_cost unresolved, no derivation path")
	return model.Quantity{}
}

// normalizeRate reads a decimal rate, converting percent-style values
// (>1) to fractions with a note. Documents commonly report "8" for 8%.
func normalizeRate(facts model.ExtractedFacts, key string, n *model.NormalizedInputs) model.Quantity {
	v, ok := facts.PositiveNumber(key)
	if !ok {
		return model.Quantity{}
	}
	if v > 1 {
		frac := v / 100
		msg := fmt.Sprintf("derived %s (%.4f) from %s expressed as percent", key, frac, key)
		n.Derivations = append(n.Derivations, msg)
		return model.Derived(frac, msg)
	}
	return model.Reported(v)
}

// normalizeRecovery reads metallurgical recovery, converting percent-style
// values in (1,100] to fractions.
func normalizeRecovery(facts model.ExtractedFacts, n *model.NormalizedInputs) model.Quantity {
	v, ok := facts.PositiveNumber(model.FieldRecovery)
	if !ok {
		return model.Quantity{}
	}
	if v > 1 && v <= 100 {
		frac := v / 100
		msg := fmt.Sprintf("derived recovery (%.4f) from recovery expressed as percent", frac)
		n.Derivations = append(n.Derivations, msg)
		return model.Derived(frac, msg)
	}
	if v > 100 {
		// Not a plausible recovery in any unit; leave unresolved.
		zap.L().Debug("normalize: recovery out of range", zap.Float64("value", v))
		return model.Quantity{}
	}
	return model.Reported(v)
}

// rating reads a 1-4 geoscientific rating; anything out of range is
// treated as unrated.
func rating(facts model.ExtractedFacts, key string) int {
	v, ok := facts.Number(key)
	if !ok {
		return 0
	}
	r := int(v)
	if r < 1 || r > 4 {
		return 0
	}
	return r
}

func flagged(facts model.ExtractedFacts, key string) bool {
	if facts.Text(key) == "true" {
		return true
	}
	v, ok := facts.Number(key)
	return ok && v == 1
}
