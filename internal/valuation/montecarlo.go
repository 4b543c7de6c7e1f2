package valuation

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ridgeline-research/minequant/internal/config"
	"github.com/ridgeline-research/minequant/internal/model"
	"github.com/ridgeline-research/minequant/internal/sufficiency"
)

// commodityVolatility is the annual price volatility assumed per
// commodity when no override is configured.
var commodityVolatility = map[string]float64{
	"gold":    0.15,
	"silver":  0.25,
	"copper":  0.20,
	"zinc":    0.22,
	"nickel":  0.28,
	"lithium": 0.35,
	"uranium": 0.30,
}

const (
	defaultVolatility = 0.20
	reversionSpeed    = 0.15
	priceFloorRatio   = 0.10
)

// Distribution summarizes the simulated NPV outcomes in $ millions.
type Distribution struct {
	Mean             float64 `json:"mean"`
	StdDev           float64 `json:"std_dev"`
	P5               float64 `json:"p5"`
	P10              float64 `json:"p10"`
	P25              float64 `json:"p25"`
	P50              float64 `json:"p50"`
	P75              float64 `json:"p75"`
	P90              float64 `json:"p90"`
	ProbPositive     float64 `json:"prob_positive"`
	ProbExceedHurdle float64 `json:"prob_exceed_hurdle"`
}

// PriceStatistics summarizes the simulated final-year prices.
type PriceStatistics struct {
	Initial   float64 `json:"initial"`
	MeanFinal float64 `json:"mean_final"`
	P10Final  float64 `json:"p10_final"`
	P90Final  float64 `json:"p90_final"`
}

// MonteCarloResult is the risk-modeling valuation: an NPV distribution
// from simulated commodity price paths. VaR5 equals the P5 of the
// distribution; monetary figures are in $ millions.
type MonteCarloResult struct {
	Insufficiency *Insufficiency `json:"insufficiency,omitempty"`

	Trials           int             `json:"trials"`
	Volatility       float64         `json:"volatility"`
	NPV              Distribution    `json:"npv"`
	VaR5             float64         `json:"var_5"`
	Prices           PriceStatistics `json:"prices"`
	RealOptionsValue float64         `json:"real_options_value"`
	OptionPremiumPct float64         `json:"option_premium_pct"`
	Recommendation   Recommendation  `json:"recommendation"`
	InputsUsed       InputsUsed      `json:"inputs_used,omitempty"`
}

// Computed reports whether the method produced a valuation.
func (r *MonteCarloResult) Computed() bool { return r != nil && r.Insufficiency == nil }

// MonteCarlo simulates mean-reverting commodity price paths and builds
// the NPV distribution across trials. It requires the core inputs plus
// initial capex. Trials are seeded individually from the configured base
// seed, so results are reproducible regardless of worker count.
func MonteCarlo(inputs model.NormalizedInputs, cfg config.ValuationConfig) *MonteCarloResult {
	if verdict := sufficiency.Check(inputs, sufficiency.MonteCarloFields); !verdict.Sufficient {
		return &MonteCarloResult{Insufficiency: &Insufficiency{
			Missing: verdict.Missing,
			Guidance: fmt.Sprintf(
				"cannot run Monte Carlo simulation: missing %s; the simulation needs production, price, cost, and initial capital",
				strings.Join(verdict.Missing, ", "),
			),
		}}
	}

	mc := cfg.MonteCarlo
	trials := mc.Trials
	if trials < 1000 {
		trials = 1000
	}
	workers := mc.Workers
	if workers < 1 {
		workers = 1
	}

	production := inputs.AnnualProduction.Value
	spot := inputs.CommodityPrice.Value
	unitCost := inputs.OperatingCost.Value
	capex := inputs.InitialCapex.Value

	years := cfg.DefaultMineLifeYears
	if inputs.MineLife.Resolved() {
		years = int(inputs.MineLife.Value)
	}
	if years < 1 {
		years = 1
	}

	discountRate := valueOr(inputs.DiscountRate, cfg.DefaultDiscountRate)
	taxRate := valueOr(inputs.TaxRate, cfg.DefaultTaxRate)
	royaltyRate := valueOr(inputs.RoyaltyRate, cfg.DefaultRoyaltyRate)

	volatility := mc.Volatility
	if volatility <= 0 {
		volatility = lookupAdjustment(commodityVolatility, strings.ToLower(inputs.Commodity), defaultVolatility)
	}

	npvs := make([]float64, trials)
	finals := make([]float64, trials)

	var g errgroup.Group
	chunk := (trials + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, (w+1)*chunk
		if hi > trials {
			hi = trials
		}
		if lo >= hi {
			break
		}
		g.Go(func() error {
			for trial := lo; trial < hi; trial++ {
				rng := rand.New(rand.NewSource(mc.Seed + int64(trial)))
				npv, final := simulateTrial(rng, trialParams{
					spot: spot, volatility: volatility, years: years,
					production: production, unitCost: unitCost,
					costStdDevPct: mc.CostStdDevPct,
					capex:         capex, discountRate: discountRate,
					royaltyRate: royaltyRate, taxRate: taxRate,
				})
				npvs[trial] = npv
				finals[trial] = final
			}
			return nil
		})
	}
	_ = g.Wait()

	hurdleNPV := capex * mc.HurdleRate
	dist := summarize(npvs, hurdleNPV)

	premiumPct := 0.20
	if dist.Mean > 0 {
		premiumPct = 0.35
	}
	realOptions := dist.Mean + math.Abs(dist.Mean)*premiumPct

	sortedFinals := append([]float64(nil), finals...)
	sort.Float64s(sortedFinals)

	return &MonteCarloResult{
		Trials:     trials,
		Volatility: volatility,
		NPV:        dist,
		VaR5:       dist.P5,
		Prices: PriceStatistics{
			Initial:   spot,
			MeanFinal: mean(finals),
			P10Final:  percentile(sortedFinals, 10),
			P90Final:  percentile(sortedFinals, 90),
		},
		RealOptionsValue: realOptions,
		OptionPremiumPct: premiumPct * 100,
		Recommendation:   monteCarloRecommendation(dist),
		InputsUsed: InputsUsed{
			model.FieldAnnualProduction: production,
			model.FieldCommodityPrice:   spot,
			model.FieldOperatingCost:    unitCost,
			model.FieldInitialCapex:     capex,
			model.FieldMineLife:         float64(years),
			model.FieldDiscountRate:     discountRate,
			"volatility":                volatility,
		},
	}
}

type trialParams struct {
	spot, volatility             float64
	years                        int
	production, unitCost         float64
	costStdDevPct                float64
	capex                        float64
	discountRate                 float64
	royaltyRate, taxRate         float64
}

// simulateTrial walks one mean-reverting log-price path and discounts the
// resulting cash flows. Returns NPV in $ millions and the final-year price.
func simulateTrial(rng *rand.Rand, p trialParams) (npv, finalPrice float64) {
	logMean := math.Log(p.spot)
	floor := p.spot * priceFloorRatio

	// One cost draw per trial; cost uncertainty is structural, not annual.
	cost := p.unitCost
	if p.costStdDevPct > 0 {
		cost = math.Max(0, p.unitCost*(1+p.costStdDevPct*rng.NormFloat64()))
	}

	npvDollars := -p.capex * 1e6
	price := p.spot
	for year := 1; year <= p.years; year++ {
		logPrice := math.Log(math.Max(price, p.spot*0.01))
		// The -sigma^2/2 drift keeps E[price] volatility-neutral; without
		// it the lognormal mean inflates with the injected volatility.
		logPrice += reversionSpeed*(logMean-logPrice) - 0.5*p.volatility*p.volatility + p.volatility*rng.NormFloat64()
		price = math.Max(math.Exp(logPrice), floor)

		revenue := p.production * price
		ebitda := revenue - revenue*p.royaltyRate - p.production*cost
		cf := ebitda
		if ebitda > 0 {
			cf = ebitda * (1 - p.taxRate)
		}
		npvDollars += cf / math.Pow(1+p.discountRate, float64(year))
	}
	return npvDollars / 1e6, price
}

func summarize(npvs []float64, hurdleNPV float64) Distribution {
	sorted := append([]float64(nil), npvs...)
	sort.Float64s(sorted)

	m := mean(npvs)
	variance := 0.0
	positive, exceed := 0, 0
	for _, v := range npvs {
		variance += (v - m) * (v - m)
		if v > 0 {
			positive++
		}
		if v > hurdleNPV {
			exceed++
		}
	}
	n := float64(len(npvs))

	return Distribution{
		Mean:             m,
		StdDev:           math.Sqrt(variance / n),
		P5:               percentile(sorted, 5),
		P10:              percentile(sorted, 10),
		P25:              percentile(sorted, 25),
		P50:              percentile(sorted, 50),
		P75:              percentile(sorted, 75),
		P90:              percentile(sorted, 90),
		ProbPositive:     float64(positive) / n,
		ProbExceedHurdle: float64(exceed) / n,
	}
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// percentile interpolates linearly over a sorted slice.
func percentile(sorted []float64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := pct / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func monteCarloRecommendation(d Distribution) Recommendation {
	switch {
	case d.Mean > 0 && d.ProbPositive > 0.70:
		return Recommendation{Text: "Favorable risk profile - high probability of positive returns", Color: "green"}
	case d.Mean > 0 && d.ProbPositive > 0.50:
		return Recommendation{Text: "Moderate risk - positive expected value with significant downside", Color: "blue"}
	case d.ProbPositive > 0.30:
		return Recommendation{Text: "High risk - substantial probability of loss", Color: "orange"}
	default:
		return Recommendation{Text: "Very high risk - majority of scenarios show losses", Color: "red"}
	}
}
