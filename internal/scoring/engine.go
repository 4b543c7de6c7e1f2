package scoring

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// CategoryEvidence is the rubric-matched evidence for one category, as
// supplied by the extraction collaborator: a raw 0-10 sub-score, the facts
// backing it, and the names of rubric criteria found missing.
type CategoryEvidence struct {
	SubScore        float64  `json:"sub_score"`
	FactsFound      []string `json:"facts_found,omitempty"`
	MissingCriteria []string `json:"missing_criteria,omitempty"`
}

// Evidence maps category keys to their evidence.
type Evidence map[string]CategoryEvidence

// Penalty records one deduction with its rationale.
type Penalty struct {
	Criterion string   `json:"criterion"`
	Severity  Severity `json:"severity"`
	Points    float64  `json:"points"`
}

// CategoryResult is the scored outcome of one category.
type CategoryResult struct {
	Key           string    `json:"key"`
	Name          string    `json:"name"`
	RawScore      float64   `json:"raw_score"`
	AdjustedScore float64   `json:"adjusted_score"`
	Weight        float64   `json:"weight"`
	Contribution  float64   `json:"contribution"`
	Penalties     []Penalty `json:"penalties,omitempty"`
	EvidenceCount int       `json:"evidence_count"`
	GapNote       string    `json:"gap_note,omitempty"`
}

// ScoreResult is a composite score over one category set, on a 0-100
// scale.
type ScoreResult struct {
	Total                float64          `json:"total"`
	Band                 string           `json:"band"`
	Recommendation       string           `json:"recommendation"`
	ProbabilityOfSuccess float64          `json:"probability_of_success,omitempty"`
	Categories           []CategoryResult `json:"categories"`
}

// ScoreInvestment computes the investment score over the six investment
// categories.
func ScoreInvestment(tpl *Template, evidence Evidence) ScoreResult {
	result := score(tpl.Investment, tpl.penalties(), evidence)
	result.Band, result.Recommendation = investmentBand(result.Total)
	result.ProbabilityOfSuccess = result.Total / 100
	return result
}

// ScoreSustainability computes the sustainability score over the four
// sustainability categories.
func ScoreSustainability(tpl *Template, evidence Evidence) ScoreResult {
	result := score(tpl.Sustainability, tpl.penalties(), evidence)
	result.Band, result.Recommendation = sustainabilityRating(result.Total)
	return result
}

// score applies the penalty policy per category and combines weighted
// sub-scores. A category with no evidence scores 0 with a gap note; the
// composite still computes, degraded.
func score(categories []Category, penalties PenaltyTable, evidence Evidence) ScoreResult {
	var result ScoreResult
	total := 0.0
	for _, cat := range categories {
		cr := scoreCategory(cat, penalties, evidence)
		total += cr.Contribution
		result.Categories = append(result.Categories, cr)
	}
	result.Total = clamp(round2(total), 0, 100)
	return result
}

func scoreCategory(cat Category, penalties PenaltyTable, evidence Evidence) CategoryResult {
	ev, present := evidence[cat.Key]
	cr := CategoryResult{Key: cat.Key, Name: cat.Name, Weight: cat.Weight}
	if !present {
		cr.GapNote = fmt.Sprintf("no evidence found for %s; category scored 0", cat.Name)
		return cr
	}

	cr.RawScore = clamp(ev.SubScore, 0, 10)
	cr.EvidenceCount = len(ev.FactsFound)

	adjusted := cr.RawScore
	for _, name := range ev.MissingCriteria {
		severity := SeverityMinor
		if c, ok := cat.criterion(name); ok {
			severity = c.Severity
		}
		points := penalties.points(severity)
		adjusted -= points
		cr.Penalties = append(cr.Penalties, Penalty{Criterion: name, Severity: severity, Points: points})
		zap.L().Debug("scoring: penalty applied",
			zap.String("category", cat.Key),
			zap.String("criterion", name),
			zap.String("severity", string(severity)),
			zap.Float64("points", points),
		)
	}
	if adjusted < 0 {
		adjusted = 0
	}

	cr.AdjustedScore = round2(adjusted)
	// Sub-scores are 0-10; the weighted contribution lands on a 0-100 scale.
	cr.Contribution = round2(adjusted * 10 * cat.Weight)
	return cr
}

// RiskAdjustedNPV scales an unrisked NPV by the score-implied probability
// of success.
func RiskAdjustedNPV(totalScore, unriskedNPV float64) float64 {
	return round2(unriskedNPV * totalScore / 100)
}

func investmentBand(total float64) (band, recommendation string) {
	switch {
	case total >= 70:
		return "LOW RISK", "Favourable - fast-track or term sheet"
	case total >= 50:
		return "MODERATE RISK", "Proceed to deeper due diligence (drill program, PEA, more testwork)"
	default:
		return "HIGH RISK", "Reject or restructure (farm-out, lower price, more data required)"
	}
}

func sustainabilityRating(total float64) (rating, description string) {
	switch {
	case total >= 80:
		return "EXCELLENT", "Industry-leading sustainability practices"
	case total >= 65:
		return "GOOD", "Strong sustainability performance, above industry standards"
	case total >= 50:
		return "MODERATE", "Acceptable sustainability performance, meets basic standards"
	default:
		return "NEEDS IMPROVEMENT", "Sustainability concerns require significant improvements"
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
