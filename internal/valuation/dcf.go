package valuation

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/ridgeline-research/minequant/internal/config"
	"github.com/ridgeline-research/minequant/internal/model"
	"github.com/ridgeline-research/minequant/internal/sufficiency"
)

// DCFEconomics summarizes the unit economics behind a computed DCF.
type DCFEconomics struct {
	Commodity        string  `json:"commodity,omitempty"`
	CommodityPrice   float64 `json:"commodity_price"`
	AnnualProduction float64 `json:"annual_production"`
	UnitCost         float64 `json:"unit_cost"`
	MarginPerUnit    float64 `json:"margin_per_unit"`
	MarginPercent    float64 `json:"margin_percent"`
}

// CashFlowSchedule is the per-year profile of a DCF model. Monetary
// columns are in $ millions; Years starts at -1 (construction).
type CashFlowSchedule struct {
	Years        []int     `json:"years"`
	Production   []float64 `json:"production"`
	Revenue      []float64 `json:"revenue"`
	EBITDA       []float64 `json:"ebitda"`
	FreeCashFlow []float64 `json:"free_cash_flow"`
}

// DCFResult is the income-approach valuation: either a computed NPV/IRR
// with its schedule, or an insufficiency record. NPV is in $ millions and
// is the canonical base valuation consumed by the dependent methods.
type DCFResult struct {
	Insufficiency *Insufficiency `json:"insufficiency,omitempty"`

	NPV            float64          `json:"npv"`
	IRR            *float64         `json:"irr,omitempty"`
	PaybackYears   *float64         `json:"payback_years,omitempty"`
	DiscountRate   float64          `json:"discount_rate"`
	MineLifeYears  int              `json:"mine_life_years"`
	Economics      DCFEconomics     `json:"economics"`
	CashFlow       CashFlowSchedule `json:"cash_flow"`
	Sensitivity    map[string]float64 `json:"sensitivity,omitempty"`
	Recommendation Recommendation   `json:"recommendation"`
	InputsUsed     InputsUsed       `json:"inputs_used,omitempty"`
}

// Computed reports whether the method produced a valuation.
func (r *DCFResult) Computed() bool { return r != nil && r.Insufficiency == nil }

// IncomeDCF discounts a constructed production/price/cost cash-flow
// profile over the mine life. It refuses to run without the three
// mandatory core inputs; secondary assumptions fall back to configured
// defaults and are recorded in InputsUsed.
func IncomeDCF(inputs model.NormalizedInputs, cfg config.ValuationConfig) *DCFResult {
	if verdict := sufficiency.CheckCore(inputs); !verdict.Sufficient {
		return &DCFResult{Insufficiency: coreInsufficiency("income DCF", verdict.Missing)}
	}

	production := inputs.AnnualProduction.Value
	price := inputs.CommodityPrice.Value
	unitCost := inputs.OperatingCost.Value

	mineLife := cfg.DefaultMineLifeYears
	if inputs.MineLife.Resolved() {
		mineLife = int(inputs.MineLife.Value)
	}
	if mineLife <= 0 {
		mineLife = 1
	}
	rampYears := cfg.RampYears
	if rampYears >= mineLife {
		rampYears = mineLife - 1
	}

	discountRate := valueOr(inputs.DiscountRate, cfg.DefaultDiscountRate)
	taxRate := valueOr(inputs.TaxRate, cfg.DefaultTaxRate)
	royaltyRate := valueOr(inputs.RoyaltyRate, cfg.DefaultRoyaltyRate)
	initialCapex := valueOr(inputs.InitialCapex, 0)
	sustainingCapex := valueOr(inputs.SustainingCapex, cfg.SustainingCapex)

	schedule := CashFlowSchedule{}
	var fcfDollars []float64

	for year := -1; year <= mineLife; year++ {
		var prod, rev, ebitda, fcf float64
		switch {
		case year == -1:
			fcf = -(initialCapex + cfg.WorkingCapital) * 1e6
		case year == 0:
			if initialCapex > 0 {
				fcf = -initialCapex * 0.5 * 1e6
			}
		default:
			prod = production
			if rampYears > 0 && year <= rampYears {
				prod = production * float64(year) / float64(rampYears)
			}
			escalated := price * math.Pow(1+cfg.PriceEscalation, float64(year))
			rev = prod * escalated
			opex := prod * unitCost
			royalty := rev * royaltyRate
			ebitda = rev - opex - royalty

			sustaining := sustainingCapex * 1e6
			if rampYears > 0 && year <= rampYears {
				sustaining *= float64(year) / float64(rampYears)
			}
			taxable := math.Max(0, ebitda-sustaining)
			fcf = ebitda - sustaining - taxable*taxRate
			if year == mineLife {
				// Closure spend and working-capital release land in the
				// final operating year.
				fcf += (-cfg.ClosureCost + cfg.WorkingCapital) * 1e6
			}
		}

		schedule.Years = append(schedule.Years, year)
		schedule.Production = append(schedule.Production, prod)
		schedule.Revenue = append(schedule.Revenue, rev/1e6)
		schedule.EBITDA = append(schedule.EBITDA, ebitda/1e6)
		schedule.FreeCashFlow = append(schedule.FreeCashFlow, fcf/1e6)
		fcfDollars = append(fcfDollars, fcf)
	}

	npv := 0.0
	for i, fcf := range fcfDollars {
		year := schedule.Years[i]
		npv += fcf / math.Pow(1+discountRate, float64(year))
	}
	npv /= 1e6
	if !finite(npv) {
		zap.L().Warn("valuation: income DCF produced non-finite NPV, reporting not computable",
			zap.Float64("production", production),
			zap.Float64("price", price),
		)
		return &DCFResult{Insufficiency: &Insufficiency{
			Missing:  []string{model.FieldDiscountRate},
			Guidance: "income DCF not computable: discounting produced a non-finite value",
		}}
	}

	result := &DCFResult{
		NPV:           npv,
		DiscountRate:  discountRate,
		MineLifeYears: mineLife,
		Economics: DCFEconomics{
			Commodity:        inputs.Commodity,
			CommodityPrice:   price,
			AnnualProduction: production,
			UnitCost:         unitCost,
			MarginPerUnit:    price - unitCost,
			MarginPercent:    safeDiv(price-unitCost, price) * 100,
		},
		CashFlow: schedule,
		InputsUsed: InputsUsed{
			model.FieldAnnualProduction: production,
			model.FieldCommodityPrice:   price,
			model.FieldOperatingCost:    unitCost,
			model.FieldMineLife:         float64(mineLife),
			model.FieldDiscountRate:     discountRate,
			model.FieldTaxRate:          taxRate,
			model.FieldRoyaltyRate:      royaltyRate,
			model.FieldInitialCapex:     initialCapex,
			model.FieldSustainingCapex:  sustainingCapex,
		},
	}

	if irr, ok := IRR(schedule.FreeCashFlow); ok {
		result.IRR = &irr
	}
	if payback, ok := Payback(schedule.FreeCashFlow); ok {
		// Payback index 0 is year -1; shift to calendar years.
		shifted := payback - 1
		result.PaybackYears = &shifted
	}

	result.Sensitivity = dcfSensitivity(npv)
	result.Recommendation = dcfRecommendation(npv, result.IRR)
	return result
}

// dcfSensitivity approximates NPV response to price and cost swings using
// the observed leverage of mining DCFs (price ~2.5x, cost ~1.5x).
func dcfSensitivity(npv float64) map[string]float64 {
	s := make(map[string]float64, 8)
	for _, change := range []float64{-0.20, -0.10, 0.10, 0.20} {
		s[fmt.Sprintf("price %+.0f%%", change*100)] = npv * (1 + change*2.5)
		s[fmt.Sprintf("opex %+.0f%%", change*100)] = npv * (1 - change*1.5)
	}
	return s
}

func dcfRecommendation(npv float64, irr *float64) Recommendation {
	if npv <= 0 {
		return Recommendation{Text: "Not economic - NPV is negative at current assumptions", Color: "red"}
	}
	switch {
	case irr != nil && *irr >= 0.25:
		return Recommendation{Text: "Strong investment - excellent returns exceed hurdle rates", Color: "green"}
	case irr != nil && *irr >= 0.15:
		return Recommendation{Text: "Positive investment - solid risk-adjusted returns", Color: "blue"}
	default:
		return Recommendation{Text: "Marginal - returns may not justify risk", Color: "orange"}
	}
}

func valueOr(q model.Quantity, fallback float64) float64 {
	if q.Resolved() {
		return q.Value
	}
	return fallback
}

func coreInsufficiency(method string, missing []string) *Insufficiency {
	return &Insufficiency{
		Missing: missing,
		Guidance: fmt.Sprintf(
			"cannot compute %s: missing %s; annual production, commodity price, and operating cost/AISC are all required for a valid valuation",
			method, strings.Join(missing, ", "),
		),
	}
}
