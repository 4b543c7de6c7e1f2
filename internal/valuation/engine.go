package valuation

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ridgeline-research/minequant/internal/config"
	"github.com/ridgeline-research/minequant/internal/model"
)

// Set holds one result per valuation method.
type Set struct {
	IncomeDCF      *DCFResult         `json:"income_dcf"`
	ProbabilityDCF *ProbabilityResult `json:"probability_dcf"`
	DecisionTree   *EMVResult         `json:"decision_tree_emv"`
	MonteCarlo     *MonteCarloResult  `json:"monte_carlo"`
	Kilburn        *KilburnResult     `json:"kilburn"`
}

// ComputedCount returns how many methods produced a valuation.
func (s *Set) ComputedCount() int {
	n := 0
	if s.IncomeDCF.Computed() {
		n++
	}
	if s.ProbabilityDCF.Computed() {
		n++
	}
	if s.DecisionTree.Computed() {
		n++
	}
	if s.MonteCarlo.Computed() {
		n++
	}
	if s.Kilburn.Computed() {
		n++
	}
	return n
}

// Engine runs the valuation methods against one set of normalized inputs.
type Engine struct {
	cfg config.ValuationConfig
}

// NewEngine builds a valuation engine.
func NewEngine(cfg config.ValuationConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Run executes all five methods. The income DCF runs first because the
// probability DCF and decision tree consume its internally computed NPV;
// the remaining methods fan out concurrently over the same immutable
// inputs.
func (e *Engine) Run(ctx context.Context, inputs model.NormalizedInputs) *Set {
	set := &Set{}
	set.IncomeDCF = IncomeDCF(inputs, e.cfg)

	discountRate := e.cfg.DefaultDiscountRate
	if set.IncomeDCF.Computed() {
		discountRate = set.IncomeDCF.DiscountRate
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		set.ProbabilityDCF = ProbabilityDCF(inputs, set.IncomeDCF)
		return nil
	})
	g.Go(func() error {
		set.DecisionTree = DecisionTreeEMV(inputs, set.IncomeDCF, discountRate)
		return nil
	})
	g.Go(func() error {
		set.MonteCarlo = MonteCarlo(inputs, e.cfg)
		return nil
	})
	g.Go(func() error {
		set.Kilburn = Kilburn(inputs, e.cfg)
		return nil
	})
	_ = g.Wait()

	zap.L().Info("valuation: methods complete",
		zap.Int("computed", set.ComputedCount()),
		zap.Int("methods", len(Methods)),
	)
	return set
}
