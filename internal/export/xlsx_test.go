package export

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/ridgeline-research/minequant/internal/analysis"
	"github.com/ridgeline-research/minequant/internal/config"
	"github.com/ridgeline-research/minequant/internal/model"
	"github.com/ridgeline-research/minequant/internal/scoring"
)

func num(v float64) *float64 { return &v }

func sampleReport(t *testing.T) *analysis.Report {
	t.Helper()
	facts := model.NewExtractedFacts([]model.Fact{
		{Key: model.FieldAnnualProduction, Number: num(50000)},
		{Key: model.FieldCommodityPrice, Number: num(1900)},
		{Key: model.FieldOperatingCost, Number: num(950)},
		{Key: model.FieldMineLife, Number: num(8)},
		{Key: "primary_commodity", Text: "gold"},
		{Key: "development_stage", Text: "feasibility"},
	})
	runner := analysis.NewRunner(config.Default(), scoring.DefaultTemplate())
	return runner.Run(context.Background(), facts, scoring.Evidence{
		"economics": {SubScore: 7, FactsFound: []string{"npv table"}},
	})
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteWorkbook(sampleReport(t), path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	names := make([]string, 0, len(f.Sheets))
	for _, s := range f.Sheets {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Summary", "Valuations", "Cash Flow", "Scores"}, names)

	// Valuations sheet: header plus one row per method.
	valSheet := f.Sheet["Valuations"]
	require.NotNil(t, valSheet)
	assert.Len(t, valSheet.Rows, 6)

	// Cash flow sheet: header plus years -1..8.
	cfSheet := f.Sheet["Cash Flow"]
	require.NotNil(t, cfSheet)
	assert.Len(t, cfSheet.Rows, 11)
}

func TestWriteWorkbookBadPath(t *testing.T) {
	err := WriteWorkbook(sampleReport(t), filepath.Join(t.TempDir(), "missing", "report.xlsx"))
	assert.Error(t, err)
}
