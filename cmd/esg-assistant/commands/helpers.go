package commands

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spherical-ai/esg-assistant/cmd/esg-assistant/ui"
	"github.com/spherical-ai/esg-assistant/internal/assistant"
	"github.com/spherical-ai/esg-assistant/internal/config"
	"github.com/spherical-ai/esg-assistant/internal/llm"
	"github.com/spherical-ai/esg-assistant/internal/observability"
	"github.com/spherical-ai/esg-assistant/internal/pdf"
	"github.com/spherical-ai/esg-assistant/internal/storage"
)

// app bundles the wired components a command needs.
type app struct {
	cfg     *config.Config
	logger  *observability.Logger
	service *assistant.Service
	reports *storage.ReportRepository
	db      *sql.DB
}

// signalContext returns a context cancelled by Ctrl-C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// newLogger builds the CLI logger. Logs go to stderr and stay quiet unless
// verbose output was requested.
func newLogger() *observability.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return observability.NewLogger(observability.LogConfig{
		Level:       level,
		Format:      logFormat,
		Output:      os.Stderr,
		ServiceName: "esg-assistant",
		NoColor:     noColor,
	})
}

// loadApp loads configuration and wires the assistant. status may be nil.
func loadApp(ctx context.Context, status *statusReporter) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := newLogger()

	client, err := llm.NewClient(llm.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create completion client: %w", err)
	}

	pdfCfg := pdf.Config{
		Engine:      pdf.Engine(cfg.PDF.Engine),
		MaxFileSize: cfg.PDF.MaxFileSize,
		Logger:      logger,
	}
	if status != nil {
		pdfCfg.OnPage = status.progress.Update
	}
	extractor, err := pdf.NewExtractor(pdfCfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	opts := []assistant.Option{assistant.WithLogger(logger)}
	if status != nil {
		opts = append(opts, assistant.WithObserver(status.observe))
	}

	if cfg.ArchiveEnabled() {
		db, err := storage.Open(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open report archive: %w", err)
		}
		a.db = db
		a.reports = storage.NewReportRepository(db)
		opts = append(opts, assistant.WithReportSink(a.reports))
		ui.Debug("Archiving reports to %s", cfg.Database.Driver)
	}

	a.service = assistant.New(client, extractor, cfg.Assistant.Persona, opts...)
	return a, nil
}

// Close releases the archive connection.
func (a *app) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// statusReporter turns assistant events into a page progress bar and a
// waiting spinner.
type statusReporter struct {
	progress *ui.PageProgress
	spinner  *ui.Spinner
}

func newStatusReporter() *statusReporter {
	return &statusReporter{
		progress: ui.NewPageProgress("Reading pages"),
		spinner:  ui.NewSpinner("Thinking..."),
	}
}

// waitingFor sets the spinner message for the next request.
func (s *statusReporter) waitingFor(message string) {
	s.spinner.UpdateMessage(message)
}

func (s *statusReporter) observe(e assistant.Event) {
	switch e.Type {
	case assistant.EventExtracting:
		ui.Info("Extracting text from ESG report...")
	case assistant.EventExtracted:
		s.progress.Done()
		ui.Debug("Extracted %s", e.Payload)
	case assistant.EventRequesting:
		s.spinner.Start()
	case assistant.EventComplete, assistant.EventError:
		s.spinner.Stop()
		s.progress.Done()
	}
}

// requireArchive fails when no report archive is configured.
func (a *app) requireArchive() error {
	if a.reports == nil {
		return fmt.Errorf("report archive is disabled; set database.driver to sqlite or postgres")
	}
	return nil
}
