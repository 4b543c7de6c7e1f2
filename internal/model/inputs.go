package model

import "math"

// Origin tags how a normalized input value was obtained. Absent is the
// zero value so an untouched Quantity is unambiguously unresolved — it can
// never be mistaken for a reported zero.
type Origin int

const (
	// OriginAbsent marks a field that could be neither read nor derived.
	OriginAbsent Origin = iota
	// OriginReported marks a value taken verbatim from extracted facts.
	OriginReported
	// OriginDerived marks a value computed from related fields.
	OriginDerived
	// OriginVerifiedZero marks an explicitly confirmed zero, e.g. a
	// zero-cost byproduct scenario. Plain zeros are never trusted.
	OriginVerifiedZero
)

// String returns the origin tag used in derivation notes and reports.
func (o Origin) String() string {
	switch o {
	case OriginReported:
		return "reported"
	case OriginDerived:
		return "derived"
	case OriginVerifiedZero:
		return "verified_zero"
	default:
		return "absent"
	}
}

// MarshalText implements encoding.TextMarshaler for JSON output.
func (o Origin) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Quantity is the tri-state numeric field of NormalizedInputs: absent,
// reported, or derived (with a note naming the source fields and formula).
type Quantity struct {
	Value  float64 `json:"value"`
	Origin Origin  `json:"origin"`
	Note   string  `json:"note,omitempty"`
}

// Reported builds a verbatim quantity.
func Reported(v float64) Quantity {
	return Quantity{Value: v, Origin: OriginReported}
}

// Derived builds a computed quantity with its derivation note.
func Derived(v float64, note string) Quantity {
	return Quantity{Value: v, Origin: OriginDerived, Note: note}
}

// VerifiedZero builds an explicitly confirmed zero quantity.
func VerifiedZero(note string) Quantity {
	return Quantity{Value: 0, Origin: OriginVerifiedZero, Note: note}
}

// Resolved reports whether the quantity holds a usable value: present,
// finite, and strictly positive — or an explicitly verified zero.
func (q Quantity) Resolved() bool {
	if q.Origin == OriginAbsent {
		return false
	}
	if q.Origin == OriginVerifiedZero {
		return true
	}
	return !math.IsNaN(q.Value) && !math.IsInf(q.Value, 0) && q.Value > 0
}

// Canonical field names of the normalized input schema. These are the keys
// used in sufficiency verdicts, derivation notes, and the missing-inputs
// report.
const (
	FieldAnnualProduction = "annual_production"
	FieldCommodityPrice   = "commodity_price"
	FieldOperatingCost    = "operating_cost"
	FieldAISC             = "all_in_sustaining_cost"
	FieldMineLife         = "mine_life"
	FieldThroughput       = "throughput"
	FieldGrade            = "grade"
	FieldRecovery         = "recovery"
	FieldInitialCapex     = "initial_capex"
	FieldSustainingCapex  = "sustaining_capex"
	FieldDiscountRate     = "discount_rate"
	FieldTaxRate          = "tax_rate"
	FieldRoyaltyRate      = "royalty_rate"
	FieldAnnualRevenue    = "annual_revenue"
	FieldAnnualOpex       = "annual_opex"
	FieldExplorationSpend = "exploration_spend"
	FieldDrillMeters      = "drill_meters"
	FieldPropertyAreaKm2  = "property_area_km2"
	FieldLOMProduction    = "life_of_mine_production"
	FieldPriceAssumption  = "commodity_price_assumption"

	// FieldZeroCostVerified flags a confirmed zero-cost byproduct scenario.
	// Only this flag lets a zero operating cost count as resolved.
	FieldZeroCostVerified = "zero_cost_byproduct_verified"

	// Geoscientific rating facts for the cost-approach valuation, 1-4 scale.
	FieldRegionalProspectivity = "regional_prospectivity"
	FieldProjectMaturity       = "project_maturity_score"
	FieldLocalGeology          = "local_geology_score"
	FieldAnalyticalData        = "analytical_data_quality"
)

// GeoRatings are the four geoscientific ratings on a 1-4 scale. Zero means
// unrated; the cost-approach method then infers a rating from the
// development stage and resource context.
type GeoRatings struct {
	RegionalProspectivity int `json:"regional_prospectivity,omitempty"`
	ProjectMaturity       int `json:"project_maturity,omitempty"`
	LocalGeology          int `json:"local_geology,omitempty"`
	AnalyticalData        int `json:"analytical_data,omitempty"`
}

// NormalizedInputs is the fixed numeric schema the valuation methods read.
// Monetary units: per-unit prices and costs in dollars; annual_revenue and
// annual_opex in absolute dollars; capital items (initial_capex,
// sustaining_capex, exploration_spend) in $ millions. Rates are decimal
// fractions. Production in commodity units per year.
type NormalizedInputs struct {
	AnnualProduction Quantity `json:"annual_production"`
	CommodityPrice   Quantity `json:"commodity_price"`
	OperatingCost    Quantity `json:"operating_cost"`
	MineLife         Quantity `json:"mine_life"`
	Throughput       Quantity `json:"throughput"`
	Grade            Quantity `json:"grade"`
	Recovery         Quantity `json:"recovery"`
	InitialCapex     Quantity `json:"initial_capex"`
	SustainingCapex  Quantity `json:"sustaining_capex"`
	DiscountRate     Quantity `json:"discount_rate"`
	TaxRate          Quantity `json:"tax_rate"`
	RoyaltyRate      Quantity `json:"royalty_rate"`
	AnnualRevenue    Quantity `json:"annual_revenue"`
	AnnualOpex       Quantity `json:"annual_opex"`
	ExplorationSpend Quantity `json:"exploration_spend"`
	DrillMeters      Quantity `json:"drill_meters"`
	PropertyAreaKm2  Quantity `json:"property_area_km2"`

	// Categorical context used by the stage-aware valuation methods.
	Commodity           string `json:"commodity,omitempty"`
	DevelopmentStage    string `json:"development_stage,omitempty"`
	Jurisdiction        string `json:"jurisdiction,omitempty"`
	TechnicalComplexity string `json:"technical_complexity,omitempty"`

	// Ratings carries the geoscientific ratings when the documents report
	// them.
	Ratings GeoRatings `json:"ratings,omitempty"`

	// Derivations lists every derivation note produced by the normalizer,
	// in the order the derivations were attempted.
	Derivations []string `json:"derivations,omitempty"`
}

// Field returns the quantity for a canonical field name. Unknown names
// return an absent quantity.
func (n NormalizedInputs) Field(name string) Quantity {
	switch name {
	case FieldAnnualProduction:
		return n.AnnualProduction
	case FieldCommodityPrice:
		return n.CommodityPrice
	case FieldOperatingCost:
		return n.OperatingCost
	case FieldMineLife:
		return n.MineLife
	case FieldThroughput:
		return n.Throughput
	case FieldGrade:
		return n.Grade
	case FieldRecovery:
		return n.Recovery
	case FieldInitialCapex:
		return n.InitialCapex
	case FieldSustainingCapex:
		return n.SustainingCapex
	case FieldDiscountRate:
		return n.DiscountRate
	case FieldTaxRate:
		return n.TaxRate
	case FieldRoyaltyRate:
		return n.RoyaltyRate
	case FieldAnnualRevenue:
		return n.AnnualRevenue
	case FieldAnnualOpex:
		return n.AnnualOpex
	case FieldExplorationSpend:
		return n.ExplorationSpend
	case FieldDrillMeters:
		return n.DrillMeters
	case FieldPropertyAreaKm2:
		return n.PropertyAreaKm2
	default:
		return Quantity{}
	}
}
