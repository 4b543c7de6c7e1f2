package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ridgeline-research/minequant/internal/scoring"
)

var templateFile string

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage scoring templates",
}

var templateValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a custom scoring template",
	Long: `Checks that a scoring template preserves the category identity sets
and that each score type's weights sum to 1.0.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := scoring.LoadTemplate(templateFile); err != nil {
			return err
		}
		fmt.Printf("template %s is valid\n", templateFile)
		return nil
	},
}

func init() {
	templateValidateCmd.Flags().StringVar(&templateFile, "file", "", "path to template YAML (required)")
	_ = templateValidateCmd.MarkFlagRequired("file")
	templateCmd.AddCommand(templateValidateCmd)
	rootCmd.AddCommand(templateCmd)
}
