// Package valuation implements the five asset-valuation methodologies and
// the ordered engine that runs them: income DCF (base), probability-
// weighted DCF and decision-tree EMV (both anchored to the base NPV),
// Monte Carlo risk modeling, and the Kilburn cost approach. Methods that
// lack their mandatory inputs report insufficiency instead of fabricating
// numbers.
package valuation

import "math"

const (
	irrMaxIterations = 100
	irrTolerance     = 1e-6
)

// finite reports whether v is a usable number.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// NPV discounts a cash-flow series (index 0 = year 0) at rate. Returns
// false when the result would be non-finite.
func NPV(cashflows []float64, rate float64) (float64, bool) {
	if len(cashflows) == 0 || rate <= -1 {
		return 0, false
	}
	npv := 0.0
	for year, cf := range cashflows {
		npv += cf / math.Pow(1+rate, float64(year))
	}
	if !finite(npv) {
		return 0, false
	}
	return npv, true
}

// IRR solves for the internal rate of return with Newton-Raphson. Returns
// false when the series has no sign change, the iteration does not
// converge, or the root falls outside (-99%, 1000%).
func IRR(cashflows []float64) (float64, bool) {
	if len(cashflows) < 2 || !hasSignChange(cashflows) {
		return 0, false
	}

	rate := 0.10
	for i := 0; i < irrMaxIterations; i++ {
		npv := 0.0
		derivative := 0.0
		for t, cf := range cashflows {
			ft := float64(t)
			npv += cf / math.Pow(1+rate, ft)
			derivative += -ft * cf / math.Pow(1+rate, ft+1)
		}
		if math.Abs(derivative) < irrTolerance {
			return 0, false
		}
		next := rate - npv/derivative
		if !finite(next) {
			return 0, false
		}
		if math.Abs(next-rate) < irrTolerance {
			if next > -0.99 && next <= 10.0 {
				return next, true
			}
			return 0, false
		}
		rate = next
	}
	return 0, false
}

func hasSignChange(cashflows []float64) bool {
	var pos, neg bool
	for _, cf := range cashflows {
		if cf > 0 {
			pos = true
		}
		if cf < 0 {
			neg = true
		}
	}
	return pos && neg
}

// Payback returns the fractional year in which cumulative cash flow first
// turns non-negative, or false when the investment is never recovered.
func Payback(cashflows []float64) (float64, bool) {
	if len(cashflows) < 2 {
		return 0, false
	}
	cumulative := 0.0
	for year, cf := range cashflows {
		previous := cumulative
		cumulative += cf
		if cumulative >= 0 {
			if year == 0 {
				return 0, true
			}
			if cf == 0 {
				return float64(year), true
			}
			fraction := math.Abs(previous) / math.Abs(cf)
			return float64(year-1) + fraction, true
		}
	}
	return 0, false
}

// ProductionProfile builds a per-year production schedule with a linear
// ramp to the steady-state target.
func ProductionProfile(mineLifeYears, rampYears int, target float64) []float64 {
	if mineLifeYears <= 0 {
		return nil
	}
	if rampYears < 0 {
		rampYears = 0
	}
	profile := make([]float64, mineLifeYears)
	for year := 1; year <= mineLifeYears; year++ {
		if rampYears > 0 && year <= rampYears {
			profile[year-1] = target * float64(year) / float64(rampYears)
		} else {
			profile[year-1] = target
		}
	}
	return profile
}

// safeDiv divides a by b, returning 0 when the division is not computable.
// Used where a zero denominator means "no metric", never infinity.
func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	v := a / b
	if !finite(v) {
		return 0
	}
	return v
}
