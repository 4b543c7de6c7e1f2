package valuation

import (
	"math"
	"strings"

	"github.com/ridgeline-research/minequant/internal/config"
	"github.com/ridgeline-research/minequant/internal/model"
	"github.com/ridgeline-research/minequant/internal/sufficiency"
)

// pemRange bounds the prospectivity enhancement multiplier for one
// rating category.
type pemRange struct {
	Min, Max float64
}

var pemRanges = map[string]pemRange{
	"very_low":  {0.5, 1.0},
	"low":       {1.0, 1.5},
	"moderate":  {1.5, 2.0},
	"high":      {2.0, 3.0},
	"very_high": {3.0, 5.0},
}

// bacPerHectare is the base acquisition cost in USD per hectare by region.
var bacPerHectare = map[string]float64{
	"north_america": 25.0,
	"south_america": 15.0,
	"australia":     20.0,
	"africa":        10.0,
	"europe":        30.0,
	"asia":          12.0,
	"other":         15.0,
}

// drillCostPerMeter proxies exploration spend ($M) from completed drill
// meters when no spend figure is reported.
const drillCostPerMeter = 0.0003

// ValueRange brackets an appraised value.
type ValueRange struct {
	Low  float64 `json:"low"`
	Mid  float64 `json:"mid"`
	High float64 `json:"high"`
}

// MEEValuation is the multiple-of-exploration-expenditure appraisal ($M).
type MEEValuation struct {
	Expenditure         float64    `json:"expenditure"`
	AdjustedExpenditure float64    `json:"adjusted_expenditure"`
	PEM                 float64    `json:"pem"`
	AppraisedValue      float64    `json:"appraised_value"`
	Range               ValueRange `json:"range"`
}

// BACValuation is the base-acquisition-cost appraisal ($M).
type BACValuation struct {
	AreaHectares   float64    `json:"area_hectares"`
	Region         string     `json:"region"`
	CostPerHectare float64    `json:"cost_per_hectare"`
	PEM            float64    `json:"pem"`
	AppraisedValue float64    `json:"appraised_value"`
	Range          ValueRange `json:"range"`
}

// KilburnResult is the cost-approach valuation: a geoscientific rating
// drives a multiplier over exploration expenditure and land position. It
// needs none of the production/price/cost core.
type KilburnResult struct {
	Insufficiency *Insufficiency `json:"insufficiency,omitempty"`

	Ratings         model.GeoRatings `json:"ratings"`
	RatingsInferred bool             `json:"ratings_inferred"`
	CompositeRating float64          `json:"composite_rating"`
	Category        string           `json:"category"`
	PEM             float64          `json:"pem"`

	MEE *MEEValuation `json:"mee,omitempty"`
	BAC *BACValuation `json:"bac,omitempty"`

	PreferredValue       float64        `json:"preferred_value"`
	PreferredMethodology string         `json:"preferred_methodology"`
	Recommendation       Recommendation `json:"recommendation"`
	InputsUsed           InputsUsed     `json:"inputs_used,omitempty"`
}

// Computed reports whether the method produced a valuation.
func (r *KilburnResult) Computed() bool { return r != nil && r.Insufficiency == nil }

// Kilburn appraises an exploration asset with the geoscientific rating
// method: four 1-4 ratings set a prospectivity enhancement multiplier,
// applied to inflation-adjusted exploration spend (MEE) and to the land
// position's base acquisition cost (BAC). The higher of the two is the
// preferred value.
func Kilburn(inputs model.NormalizedInputs, cfg config.ValuationConfig) *KilburnResult {
	if verdict := sufficiency.CheckKilburn(inputs); !verdict.Sufficient {
		return &KilburnResult{Insufficiency: &Insufficiency{
			Missing:  verdict.Missing,
			Guidance: "cannot run cost-approach valuation: no exploration expenditure, drill meters, or property area is available",
		}}
	}

	ratings, inferred := resolveRatings(inputs)
	composite := compositeRating(ratings)
	category := ratingCategory(composite)
	pem := interpolatePEM(composite, category)

	used := InputsUsed{"pem": pem, "composite_rating": composite}
	result := &KilburnResult{
		Ratings:         ratings,
		RatingsInferred: inferred,
		CompositeRating: composite,
		Category:        category,
		PEM:             pem,
	}

	spend := inputs.ExplorationSpend
	if !spend.Resolved() && inputs.DrillMeters.Resolved() {
		spend = model.Derived(
			inputs.DrillMeters.Value*drillCostPerMeter,
			"exploration spend proxied from drill meters",
		)
	}
	if spend.Resolved() && spend.Value > 0 {
		result.MEE = meeValuation(spend.Value, pem, cfg.Kilburn.InflationRate)
		used[model.FieldExplorationSpend] = spend.Value
	}

	if inputs.PropertyAreaKm2.Resolved() {
		hectares := inputs.PropertyAreaKm2.Value * 100
		result.BAC = bacValuation(hectares, inputs.Jurisdiction, pem)
		used[model.FieldPropertyAreaKm2] = inputs.PropertyAreaKm2.Value
	}

	switch {
	case result.MEE != nil && result.BAC != nil:
		if result.MEE.AppraisedValue >= result.BAC.AppraisedValue {
			result.PreferredValue, result.PreferredMethodology = result.MEE.AppraisedValue, "MEE"
		} else {
			result.PreferredValue, result.PreferredMethodology = result.BAC.AppraisedValue, "BAC"
		}
	case result.MEE != nil:
		result.PreferredValue, result.PreferredMethodology = result.MEE.AppraisedValue, "MEE"
	case result.BAC != nil:
		result.PreferredValue, result.PreferredMethodology = result.BAC.AppraisedValue, "BAC"
	}

	result.InputsUsed = used
	result.Recommendation = kilburnRecommendation(category)
	return result
}

// resolveRatings fills unrated factors from the development stage, the
// same way a reviewer would score an unreported project.
func resolveRatings(inputs model.NormalizedInputs) (model.GeoRatings, bool) {
	r := inputs.Ratings
	inferred := false
	stage := strings.ToLower(inputs.DevelopmentStage)

	if r.RegionalProspectivity == 0 {
		inferred = true
		switch {
		case containsAny(stage, "production", "construction"):
			r.RegionalProspectivity = 4
		case containsAny(stage, "feasibility", "permitted", "advanced"):
			r.RegionalProspectivity = 3
		default:
			r.RegionalProspectivity = 2
		}
	}
	if r.ProjectMaturity == 0 {
		inferred = true
		switch {
		case containsAny(stage, "production", "construction", "permitted"):
			r.ProjectMaturity = 4
		case containsAny(stage, "feasibility", "pfs"):
			r.ProjectMaturity = 3
		default:
			r.ProjectMaturity = 2
		}
	}
	if r.LocalGeology == 0 {
		inferred = true
		// A resolved production or grade figure implies defined
		// mineralization.
		if inputs.AnnualProduction.Resolved() || inputs.Grade.Resolved() {
			r.LocalGeology = 3
		} else {
			r.LocalGeology = 2
		}
	}
	if r.AnalyticalData == 0 {
		inferred = true
		r.AnalyticalData = 2
	}
	return r, inferred
}

func compositeRating(r model.GeoRatings) float64 {
	sum := r.RegionalProspectivity + r.ProjectMaturity + r.LocalGeology + r.AnalyticalData
	return float64(sum) / 4
}

func ratingCategory(rating float64) string {
	switch {
	case rating <= 1.5:
		return "very_low"
	case rating <= 2.0:
		return "low"
	case rating <= 2.5:
		return "moderate"
	case rating <= 3.0:
		return "high"
	default:
		return "very_high"
	}
}

// interpolatePEM maps the composite rating onto the category's multiplier
// range linearly.
func interpolatePEM(rating float64, category string) float64 {
	rng := pemRanges[category]
	var normalized float64
	switch category {
	case "very_low":
		normalized = (rating - 1.0) / 0.5
	case "low":
		normalized = (rating - 1.5) / 0.5
	case "moderate":
		normalized = (rating - 2.0) / 0.5
	case "high":
		normalized = (rating - 2.5) / 0.5
	default:
		normalized = (rating - 3.0) / 1.0
	}
	normalized = math.Max(0, math.Min(1, normalized))
	pem := rng.Min + (rng.Max-rng.Min)*normalized
	return math.Round(pem*100) / 100
}

func meeValuation(spend, pem, inflationRate float64) *MEEValuation {
	// Expenditure timing is rarely reported; treat spend as current-year
	// dollars with a single year of inflation drift.
	adjusted := spend * (1 + inflationRate)
	appraised := adjusted * pem
	return &MEEValuation{
		Expenditure:         spend,
		AdjustedExpenditure: adjusted,
		PEM:                 pem,
		AppraisedValue:      appraised,
		Range:               ValueRange{Low: appraised * 0.85, Mid: appraised, High: appraised * 1.15},
	}
}

func bacValuation(hectares float64, jurisdiction string, pem float64) *BACValuation {
	region := bacRegion(jurisdiction)
	cost := bacPerHectare[region]
	// BAC table is in dollars per hectare; report in $M.
	appraised := hectares * cost * pem / 1e6
	return &BACValuation{
		AreaHectares:   hectares,
		Region:         region,
		CostPerHectare: cost,
		PEM:            pem,
		AppraisedValue: appraised,
		Range:          ValueRange{Low: appraised * 0.80, Mid: appraised, High: appraised * 1.20},
	}
}

func bacRegion(jurisdiction string) string {
	j := strings.ToLower(jurisdiction)
	switch {
	case containsAny(j, "north america", "canada", "usa", "united states", "mexico"):
		return "north_america"
	case containsAny(j, "south america", "peru", "chile", "brazil", "argentina"):
		return "south_america"
	case strings.Contains(j, "australia"):
		return "australia"
	case containsAny(j, "africa", "drc", "mali", "ghana"):
		return "africa"
	case strings.Contains(j, "europe"):
		return "europe"
	case containsAny(j, "asia", "indonesia", "philippines", "mongolia"):
		return "asia"
	default:
		return "other"
	}
}

func kilburnRecommendation(category string) Recommendation {
	switch category {
	case "very_high":
		return Recommendation{Text: "Exceptional exploration asset - defined targets justify premium", Color: "green"}
	case "high":
		return Recommendation{Text: "Above-average prospectivity - strong cost-approach support", Color: "blue"}
	case "moderate":
		return Recommendation{Text: "Average exploration potential - value anchored to sunk expenditure", Color: "orange"}
	default:
		return Recommendation{Text: "Limited prospectivity - value at or below historical expenditure", Color: "red"}
	}
}
