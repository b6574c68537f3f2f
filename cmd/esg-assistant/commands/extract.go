package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/spherical-ai/esg-assistant/cmd/esg-assistant/ui"
	"github.com/spherical-ai/esg-assistant/internal/config"
	"github.com/spherical-ai/esg-assistant/internal/pdf"
)

var (
	extractOutput string
	extractEngine string
)

var extractCmd = &cobra.Command{
	Use:   "extract <pdf>",
	Short: "Extract the text of a PDF without contacting the model",
	Long: `Extract the plain text of a PDF exactly as the analysis would see it and
write it to a file. Useful to check scanned or image-only reports, which yield
no text. No API key is required.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "output file path (default: <input-name>.txt, - for stdout)")
	extractCmd.Flags().StringVar(&extractEngine, "engine", string(pdf.EngineFitz), "extraction engine (fitz or native)")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	pdfPath := args[0]
	if extractOutput == "" {
		base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
		extractOutput = base + ".txt"
	}

	progress := ui.NewPageProgress("Reading pages")
	defer progress.Done()

	extractor, err := pdf.NewExtractor(pdf.Config{
		Engine:      pdf.Engine(extractEngine),
		MaxFileSize: config.DefaultConfig().PDF.MaxFileSize,
		Logger:      newLogger(),
		OnPage:      progress.Update,
	})
	if err != nil {
		return err
	}

	start := time.Now()
	ui.Message("Processing PDF: %s", pdfPath)
	ui.Message("%s", strings.Repeat("=", 60))

	doc, err := extractor.ExtractFile(ctx, pdfPath)
	if err != nil {
		return err
	}

	if !doc.HasText() {
		ui.Warning("No text could be extracted from the report")
	}
	if len(doc.SkippedPages) > 0 {
		ui.Warning("%d page(s) could not be read: %v", len(doc.SkippedPages), doc.SkippedPages)
	}

	if extractOutput == "-" {
		fmt.Fprintln(ui.Stdout(), doc.Text)
		return nil
	}
	if err := os.WriteFile(extractOutput, []byte(doc.Text), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	ui.Newline()
	ui.Success("Extracted %d page(s) in %s", doc.Pages, ui.FormatDuration(time.Since(start)))
	ui.KeyValue("Output", extractOutput)
	ui.KeyValue("Characters", fmt.Sprintf("%d", len([]rune(doc.Text))))
	return nil
}
