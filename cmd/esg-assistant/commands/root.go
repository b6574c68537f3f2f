// Package commands implements the esg-assistant command tree.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/spherical-ai/esg-assistant/cmd/esg-assistant/ui"
)

// Version is set by main.
var Version = "dev"

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "esg-assistant",
	Short: "Sustainability and packaging assistant",
	Long: `esg-assistant answers questions about Life Cycle Assessment, ESG reporting
and packaging sustainability. It can also summarize and benchmark ESG report
PDFs and score packaging designs.

Run without a subcommand to start an interactive chat.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ui.InitUI(noColor, verbose)
		return nil
	},
	RunE: runChat,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console or json)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
