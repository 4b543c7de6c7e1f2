package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ridgeline-research/minequant/internal/config"
	"github.com/ridgeline-research/minequant/internal/scoring"
)

var (
	cfg      *config.Config
	template *scoring.Template
)

var rootCmd = &cobra.Command{
	Use:   "minequant",
	Short: "Quantitative analysis core for mining projects",
	Long:  "Normalizes extracted technical-report facts, runs five valuation methods (income DCF, probability DCF, decision tree EMV, Monte Carlo, Kilburn), and computes investment and sustainability scores.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		template = scoring.DefaultTemplate()
		if cfg.Scoring.TemplatePath != "" {
			tpl, err := scoring.LoadTemplate(cfg.Scoring.TemplatePath)
			if err != nil {
				return fmt.Errorf("load scoring template: %w", err)
			}
			template = tpl
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
