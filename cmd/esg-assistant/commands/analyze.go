package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spherical-ai/esg-assistant/cmd/esg-assistant/ui"
)

var analyzeOutput string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <pdf>",
	Short: "Summarize and benchmark an ESG report",
	Long: `Extract the text of an ESG report PDF and ask for a summary, an industry
benchmark and improvement recommendations.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "also write the analysis to this file")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	status := newStatusReporter()
	status.waitingFor("Summarizing and benchmarking the ESG report. Please wait...")

	a, err := loadApp(ctx, status)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.service.AnalyzeFile(ctx, args[0])
	if err != nil {
		return err
	}

	ui.Section("ESG Summary & Benchmarking")
	ui.Message("%s", result.Text)
	ui.Newline()
	printDocumentNotes(result)

	if analyzeOutput != "" {
		if err := os.WriteFile(analyzeOutput, []byte(result.Text), 0o644); err != nil {
			return fmt.Errorf("write analysis: %w", err)
		}
		ui.Success("Analysis saved to %s", analyzeOutput)
	}
	return nil
}
