// Package export renders a consolidated analysis report to an XLSX
// workbook for downstream review.
package export

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/ridgeline-research/minequant/internal/analysis"
	"github.com/ridgeline-research/minequant/internal/scoring"
	"github.com/ridgeline-research/minequant/internal/valuation"
)

// WriteWorkbook writes the report to path as an XLSX workbook with
// Summary, Valuations, Cash Flow, and Scores sheets.
func WriteWorkbook(report *analysis.Report, path string) error {
	f := xlsx.NewFile()

	if err := addSummarySheet(f, report); err != nil {
		return err
	}
	if err := addValuationsSheet(f, report.Valuations); err != nil {
		return err
	}
	if err := addCashFlowSheet(f, report.Valuations.IncomeDCF); err != nil {
		return err
	}
	if err := addScoresSheet(f, report); err != nil {
		return err
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save workbook %s", path)
	}
	return nil
}

func addSummarySheet(f *xlsx.File, report *analysis.Report) error {
	sheet, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}

	addKV(sheet, "Analysis ID", report.ID)
	addKV(sheet, "Generated At", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	addKV(sheet, "Commodity", report.Inputs.Commodity)
	addKV(sheet, "Development Stage", report.Inputs.DevelopmentStage)
	addKV(sheet, "Jurisdiction", report.Inputs.Jurisdiction)
	addKV(sheet, "Methods Computed", fmt.Sprintf("%d of %d", report.Valuations.ComputedCount(), len(valuation.Methods)))
	addKV(sheet, "Investment Score", fmt.Sprintf("%.2f (%s)", report.InvestmentScore.Total, report.InvestmentScore.Band))
	addKV(sheet, "Sustainability Score", fmt.Sprintf("%.2f (%s)", report.SustainabilityScore.Total, report.SustainabilityScore.Band))

	if len(report.MissingInputs) > 0 {
		sheet.AddRow()
		header(sheet, "Missing Inputs", "Blocked Methods")
		for _, mi := range report.MissingInputs {
			row := sheet.AddRow()
			row.AddCell().SetString(mi.Label)
			row.AddCell().SetString(joinMethods(mi.BlockedMethods))
		}
	}

	if len(report.Inputs.Derivations) > 0 {
		sheet.AddRow()
		header(sheet, "Derivation Notes")
		for _, note := range report.Inputs.Derivations {
			sheet.AddRow().AddCell().SetString(note)
		}
	}
	return nil
}

func addValuationsSheet(f *xlsx.File, set *valuation.Set) error {
	sheet, err := f.AddSheet("Valuations")
	if err != nil {
		return eris.Wrap(err, "export: add valuations sheet")
	}
	header(sheet, "Method", "Status", "Value ($M)", "Detail")

	addMethodRow(sheet, "Income DCF", set.IncomeDCF.Computed(), set.IncomeDCF.Insufficiency, func() (float64, string) {
		detail := fmt.Sprintf("discount rate %.1f%%, mine life %d yrs", set.IncomeDCF.DiscountRate*100, set.IncomeDCF.MineLifeYears)
		if set.IncomeDCF.IRR != nil {
			detail += fmt.Sprintf(", IRR %.1f%%", *set.IncomeDCF.IRR*100)
		}
		return set.IncomeDCF.NPV, detail
	})
	addMethodRow(sheet, "Probability-Weighted DCF", set.ProbabilityDCF.Computed(), set.ProbabilityDCF.Insufficiency, func() (float64, string) {
		return set.ProbabilityDCF.RiskAdjustedNPV,
			fmt.Sprintf("cumulative probability %.1f%% from stage %s", set.ProbabilityDCF.CumulativeProbability*100, set.ProbabilityDCF.Stage)
	})
	addMethodRow(sheet, "Decision Tree EMV", set.DecisionTree.Computed(), set.DecisionTree.Insufficiency, func() (float64, string) {
		return set.DecisionTree.EMV,
			fmt.Sprintf("%.1f%% to production over %.1f yrs", set.DecisionTree.ProbabilityToProduction*100, set.DecisionTree.TimeToProduction)
	})
	addMethodRow(sheet, "Monte Carlo", set.MonteCarlo.Computed(), set.MonteCarlo.Insufficiency, func() (float64, string) {
		return set.MonteCarlo.NPV.Mean,
			fmt.Sprintf("%d trials, P(NPV>0) %.1f%%, VaR5 %.1f", set.MonteCarlo.Trials, set.MonteCarlo.NPV.ProbPositive*100, set.MonteCarlo.VaR5)
	})
	addMethodRow(sheet, "Kilburn Cost Approach", set.Kilburn.Computed(), set.Kilburn.Insufficiency, func() (float64, string) {
		return set.Kilburn.PreferredValue,
			fmt.Sprintf("%s preferred, PEM %.2f, category %s", set.Kilburn.PreferredMethodology, set.Kilburn.PEM, set.Kilburn.Category)
	})
	return nil
}

func addCashFlowSheet(f *xlsx.File, dcf *valuation.DCFResult) error {
	sheet, err := f.AddSheet("Cash Flow")
	if err != nil {
		return eris.Wrap(err, "export: add cash flow sheet")
	}
	if !dcf.Computed() {
		sheet.AddRow().AddCell().SetString("Income DCF not computed: " + dcf.Insufficiency.Guidance)
		return nil
	}

	header(sheet, "Year", "Production", "Revenue ($M)", "EBITDA ($M)", "Free Cash Flow ($M)")
	cf := dcf.CashFlow
	for i, year := range cf.Years {
		row := sheet.AddRow()
		row.AddCell().SetInt(year)
		row.AddCell().SetFloat(cf.Production[i])
		row.AddCell().SetFloat(cf.Revenue[i])
		row.AddCell().SetFloat(cf.EBITDA[i])
		row.AddCell().SetFloat(cf.FreeCashFlow[i])
	}
	return nil
}

func addScoresSheet(f *xlsx.File, report *analysis.Report) error {
	sheet, err := f.AddSheet("Scores")
	if err != nil {
		return eris.Wrap(err, "export: add scores sheet")
	}

	writeScoreBlock(sheet, "Investment Score", report.InvestmentScore.Total, report.InvestmentScore.Band, report.InvestmentScore.Categories)
	sheet.AddRow()
	writeScoreBlock(sheet, "Sustainability Score", report.SustainabilityScore.Total, report.SustainabilityScore.Band, report.SustainabilityScore.Categories)
	return nil
}

func writeScoreBlock(sheet *xlsx.Sheet, title string, total float64, band string, categories []scoring.CategoryResult) {
	row := sheet.AddRow()
	row.AddCell().SetString(title)
	row.AddCell().SetFloat(total)
	row.AddCell().SetString(band)

	header(sheet, "Category", "Raw", "Adjusted", "Weight", "Contribution", "Notes")
	for _, c := range categories {
		r := sheet.AddRow()
		r.AddCell().SetString(c.Name)
		r.AddCell().SetFloat(c.RawScore)
		r.AddCell().SetFloat(c.AdjustedScore)
		r.AddCell().SetFloat(c.Weight)
		r.AddCell().SetFloat(c.Contribution)
		notes := c.GapNote
		for _, p := range c.Penalties {
			if notes != "" {
				notes += "; "
			}
			notes += fmt.Sprintf("-%.1f %s (%s)", p.Points, p.Criterion, p.Severity)
		}
		r.AddCell().SetString(notes)
	}
}

func addMethodRow(sheet *xlsx.Sheet, name string, computed bool, ins *valuation.Insufficiency, value func() (float64, string)) {
	row := sheet.AddRow()
	row.AddCell().SetString(name)
	if !computed {
		row.AddCell().SetString("insufficient")
		row.AddCell().SetString("")
		row.AddCell().SetString(ins.Guidance)
		return
	}
	v, detail := value()
	row.AddCell().SetString("computed")
	row.AddCell().SetFloat(v)
	row.AddCell().SetString(detail)
}

func addKV(sheet *xlsx.Sheet, key, value string) {
	row := sheet.AddRow()
	row.AddCell().SetString(key)
	row.AddCell().SetString(value)
}

func header(sheet *xlsx.Sheet, names ...string) {
	row := sheet.AddRow()
	for _, n := range names {
		row.AddCell().SetString(n)
	}
}

func joinMethods(methods []valuation.Method) string {
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
