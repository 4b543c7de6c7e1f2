package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ridgeline-research/minequant/internal/analysis"
	"github.com/ridgeline-research/minequant/internal/export"
	"github.com/ridgeline-research/minequant/internal/model"
	"github.com/ridgeline-research/minequant/internal/scoring"
)

var (
	analyzeFactsPath    string
	analyzeEvidencePath string
	analyzeOutputPath   string
	analyzeXLSXPath     string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a full valuation and scoring analysis",
	Long: `Runs the complete analysis against a JSON file of extracted facts.

The facts file is a JSON array of {key, number|text, source} records as
produced by the document-extraction stage. An optional evidence file maps
scoring categories to sub-scores and missing criteria.

Examples:
  # Analyze and print the report to stdout
  minequant analyze --facts facts.json

  # Include scoring evidence and write an XLSX workbook
  minequant analyze --facts facts.json --evidence evidence.json --xlsx report.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		facts, err := loadFacts(analyzeFactsPath)
		if err != nil {
			return err
		}

		evidence := scoring.Evidence{}
		if analyzeEvidencePath != "" {
			evidence, err = loadEvidence(analyzeEvidencePath)
			if err != nil {
				return err
			}
		}

		runner := analysis.NewRunner(cfg, template)
		report := runner.Run(cmd.Context(), facts, evidence)

		if analyzeXLSXPath != "" {
			if err := export.WriteWorkbook(report, analyzeXLSXPath); err != nil {
				return err
			}
			zap.L().Info("analyze: workbook written", zap.String("path", analyzeXLSXPath))
		}

		out := os.Stdout
		if analyzeOutputPath != "" {
			f, err := os.Create(analyzeOutputPath)
			if err != nil {
				return eris.Wrapf(err, "analyze: create output %s", analyzeOutputPath)
			}
			defer f.Close()
			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return eris.Wrap(err, "analyze: encode report")
		}
		return nil
	},
}

func loadFacts(path string) (model.ExtractedFacts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.ExtractedFacts{}, eris.Wrapf(err, "analyze: read facts %s", path)
	}
	var facts []model.Fact
	if err := json.Unmarshal(data, &facts); err != nil {
		return model.ExtractedFacts{}, eris.Wrapf(err, "analyze: parse facts %s", path)
	}
	return model.NewExtractedFacts(facts), nil
}

func loadEvidence(path string) (scoring.Evidence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "analyze: read evidence %s", path)
	}
	var evidence scoring.Evidence
	if err := json.Unmarshal(data, &evidence); err != nil {
		return nil, eris.Wrapf(err, "analyze: parse evidence %s", path)
	}
	return evidence, nil
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFactsPath, "facts", "", "path to extracted facts JSON (required)")
	f.StringVar(&analyzeEvidencePath, "evidence", "", "path to scoring evidence JSON")
	f.StringVar(&analyzeOutputPath, "output", "", "write report JSON to file instead of stdout")
	f.StringVar(&analyzeXLSXPath, "xlsx", "", "also write an XLSX workbook to this path")
	_ = analyzeCmd.MarkFlagRequired("facts")
	rootCmd.AddCommand(analyzeCmd)
}
