// Package analysis orchestrates one full quantitative analysis: input
// normalization, the five valuation methods, and the two score
// computations, joined into a single consolidated report. Missing data
// degrades the report; it never aborts it.
package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ridgeline-research/minequant/internal/config"
	"github.com/ridgeline-research/minequant/internal/model"
	"github.com/ridgeline-research/minequant/internal/normalize"
	"github.com/ridgeline-research/minequant/internal/scoring"
	"github.com/ridgeline-research/minequant/internal/valuation"
)

// Report is the consolidated analysis record handed to downstream
// renderers and exporters.
type Report struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	DurationMS  int64     `json:"duration_ms"`

	Inputs   model.NormalizedInputs                       `json:"inputs"`
	Verdicts map[valuation.Method]model.SufficiencyVerdict `json:"verdicts"`

	Valuations          *valuation.Set      `json:"valuations"`
	InvestmentScore     scoring.ScoreResult `json:"investment_score"`
	SustainabilityScore scoring.ScoreResult `json:"sustainability_score"`

	MissingInputs []MissingInput `json:"missing_inputs,omitempty"`
}

// Runner executes analyses against one configuration and template.
type Runner struct {
	cfg      *config.Config
	template *scoring.Template
	engine   *valuation.Engine
}

// NewRunner builds an analysis runner. The template must already be
// validated; pass scoring.DefaultTemplate() when no custom template is
// configured.
func NewRunner(cfg *config.Config, tpl *scoring.Template) *Runner {
	return &Runner{
		cfg:      cfg,
		template: tpl,
		engine:   valuation.NewEngine(cfg.Valuation),
	}
}

// Run performs one analysis. The valuation engine and the two score
// computations fan out concurrently; each reads the same immutable inputs
// and writes only its own result.
func (r *Runner) Run(ctx context.Context, facts model.ExtractedFacts, evidence scoring.Evidence) *Report {
	start := time.Now()

	inputs := normalize.Normalize(facts)
	for _, d := range inputs.Derivations {
		zap.L().Info("analysis: input derived", zap.String("note", d))
	}

	report := &Report{
		ID:          uuid.NewString(),
		GeneratedAt: start.UTC(),
		Inputs:      inputs,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report.Valuations = r.engine.Run(ctx, inputs)
		return nil
	})
	g.Go(func() error {
		report.InvestmentScore = scoring.ScoreInvestment(r.template, evidence)
		return nil
	})
	g.Go(func() error {
		report.SustainabilityScore = scoring.ScoreSustainability(r.template, evidence)
		return nil
	})
	_ = g.Wait()

	report.Verdicts = verdicts(report.Valuations)
	report.MissingInputs = missingInputs(report.Valuations)
	report.DurationMS = time.Since(start).Milliseconds()

	zap.L().Info("analysis: report complete",
		zap.String("id", report.ID),
		zap.Int("methods_computed", report.Valuations.ComputedCount()),
		zap.Float64("investment_score", report.InvestmentScore.Total),
		zap.Float64("sustainability_score", report.SustainabilityScore.Total),
		zap.Int("missing_inputs", len(report.MissingInputs)),
	)
	return report
}

// verdicts condenses each method's outcome into a sufficiency verdict.
func verdicts(set *valuation.Set) map[valuation.Method]model.SufficiencyVerdict {
	v := make(map[valuation.Method]model.SufficiencyVerdict, len(valuation.Methods))
	v[valuation.MethodIncomeDCF] = verdictOf(set.IncomeDCF.Computed(), insufficiencyOf(set.IncomeDCF.Insufficiency))
	v[valuation.MethodProbabilityDCF] = verdictOf(set.ProbabilityDCF.Computed(), insufficiencyOf(set.ProbabilityDCF.Insufficiency))
	v[valuation.MethodDecisionTreeEMV] = verdictOf(set.DecisionTree.Computed(), insufficiencyOf(set.DecisionTree.Insufficiency))
	v[valuation.MethodMonteCarlo] = verdictOf(set.MonteCarlo.Computed(), insufficiencyOf(set.MonteCarlo.Insufficiency))
	v[valuation.MethodKilburn] = verdictOf(set.Kilburn.Computed(), insufficiencyOf(set.Kilburn.Insufficiency))
	return v
}

func verdictOf(computed bool, missing []string) model.SufficiencyVerdict {
	if computed {
		return model.Sufficient()
	}
	return model.Insufficient(missing...)
}

func insufficiencyOf(ins *valuation.Insufficiency) []string {
	if ins == nil {
		return nil
	}
	return ins.Missing
}
