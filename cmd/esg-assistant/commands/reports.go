package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/spherical-ai/esg-assistant/cmd/esg-assistant/ui"
	"github.com/spherical-ai/esg-assistant/internal/storage"
)

var (
	reportsLimit int
	reportsSave  bool
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Browse archived analyses and scores",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent reports",
	Args:  cobra.NoArgs,
	RunE:  runReportsList,
}

var reportsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportsShow,
}

func init() {
	reportsListCmd.Flags().IntVarP(&reportsLimit, "limit", "n", 20, "maximum number of reports")
	reportsShowCmd.Flags().BoolVar(&reportsSave, "save", false, "write the report to a text file in the current directory")
	reportsCmd.AddCommand(reportsListCmd, reportsShowCmd)
	rootCmd.AddCommand(reportsCmd)
}

func runReportsList(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := loadApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireArchive(); err != nil {
		return err
	}

	reports, err := a.reports.List(ctx, reportsLimit)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		ui.Info("No reports archived yet")
		return nil
	}

	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		pages := "-"
		if r.Pages > 0 {
			pages = strconv.Itoa(r.Pages)
		}
		rows = append(rows, []string{
			r.ID.String(),
			string(r.Kind),
			r.Source,
			pages,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	ui.Table([]string{"ID", "KIND", "SOURCE", "PAGES", "CREATED"}, rows)
	return nil
}

func runReportsShow(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid report ID: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	a, err := loadApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireArchive(); err != nil {
		return err
	}

	report, err := a.reports.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("report %s not found", id)
	}
	if err != nil {
		return err
	}

	ui.Section(report.Source)
	ui.KeyValue("Kind", string(report.Kind))
	ui.KeyValue("Created", report.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	if report.Pages > 0 {
		ui.KeyValue("Pages", strconv.Itoa(report.Pages))
	}
	ui.Newline()
	ui.Box("", report.Content, 76)

	if reportsSave {
		name := report.DownloadName()
		if err := os.WriteFile(name, []byte(report.Content), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		ui.Success("Report saved to %s", name)
	}
	return nil
}
