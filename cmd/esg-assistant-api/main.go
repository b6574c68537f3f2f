// Package main provides the ESG assistant API server entrypoint.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spherical-ai/esg-assistant/cmd/esg-assistant-api/handlers"
	"github.com/spherical-ai/esg-assistant/internal/assistant"
	"github.com/spherical-ai/esg-assistant/internal/config"
	"github.com/spherical-ai/esg-assistant/internal/llm"
	"github.com/spherical-ai/esg-assistant/internal/observability"
	"github.com/spherical-ai/esg-assistant/internal/pdf"
	"github.com/spherical-ai/esg-assistant/internal/session"
	"github.com/spherical-ai/esg-assistant/internal/storage"
)

func main() {
	cfgPath := flag.String("config", "", "config file path (defaults to CONFIG_PATH)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: "esg-assistant-api",
	})

	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *observability.Logger) error {
	ctx := context.Background()

	logger.Info().
		Str("addr", cfg.Addr()).
		Str("model", cfg.LLM.Model).
		Str("pdf_engine", cfg.PDF.Engine).
		Str("sessions", cfg.Session.Driver).
		Str("database", cfg.Database.Driver).
		Msg("Starting ESG assistant API")

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
		return err
	}

	extractor, err := pdf.NewExtractor(pdf.Config{
		Engine:      pdf.Engine(cfg.PDF.Engine),
		MaxFileSize: cfg.PDF.MaxFileSize,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	opts := []assistant.Option{assistant.WithLogger(logger)}
	var reports handlers.ReportStore
	if cfg.ArchiveEnabled() {
		db, err := storage.Open(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("open report archive: %w", err)
		}
		defer db.Close()

		repo := storage.NewReportRepository(db)
		reports = repo
		opts = append(opts, assistant.WithReportSink(repo))
	}
	svc := assistant.New(client, extractor, cfg.Assistant.Persona, opts...)

	store, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	router := NewRouter(logger, AppConfig{
		RequestTimeout: cfg.Server.ReadTimeout,
		MaxUploadSize:  cfg.PDF.MaxFileSize,
		APIToken:       cfg.Server.APIToken,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, Dependencies{
		Assistant: svc,
		Sessions:  session.NewManager(store, svc, logger),
		Reports:   reports,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     logger.StdLogger("http"),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		if err := srv.Close(); err != nil {
			logger.Error().Err(err).Msg("Forced shutdown failed")
		}
	}

	logger.Info().Msg("Server stopped")
	return nil
}

func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	if cfg.Session.Driver != "redis" {
		return session.NewMemoryStore(cfg.Session.TTL), nil
	}

	store, err := session.NewRedisStore(ctx, session.RedisConfig{
		Addr:     cfg.Session.Redis.Addr,
		Password: cfg.Session.Redis.Password,
		DB:       cfg.Session.Redis.DB,
		Prefix:   cfg.Session.Redis.KeyPrefix,
		TTL:      cfg.Session.TTL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect session store: %w", err)
	}
	return store, nil
}
