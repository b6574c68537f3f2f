// Package main provides the API router setup.
package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/spherical-ai/esg-assistant/cmd/esg-assistant-api/handlers"
	"github.com/spherical-ai/esg-assistant/cmd/esg-assistant-api/middleware"
	"github.com/spherical-ai/esg-assistant/cmd/esg-assistant-api/web"
	"github.com/spherical-ai/esg-assistant/internal/assistant"
	"github.com/spherical-ai/esg-assistant/internal/observability"
	"github.com/spherical-ai/esg-assistant/internal/session"
)

// AppConfig holds the router settings.
type AppConfig struct {
	RequestTimeout time.Duration
	MaxUploadSize  int64
	APIToken       string
	AllowedOrigins []string
}

// Dependencies are the wired services the handlers use.
type Dependencies struct {
	Assistant *assistant.Service
	Sessions  *session.Manager
	// Reports is nil when the archive is disabled.
	Reports handlers.ReportStore
}

// NewRouter creates the main API router with all routes configured.
func NewRouter(logger *observability.Logger, cfg AppConfig, deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/", web.Index)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy","service":"esg-assistant"}`))
	})

	sessionHandler := handlers.NewSessionHandler(logger, deps.Sessions)
	analysisHandler := handlers.NewAnalysisHandler(logger, deps.Assistant, cfg.MaxUploadSize)
	reportHandler := handlers.NewReportHandler(logger, deps.Reports)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.BearerToken(cfg.APIToken))

		r.Post("/sessions", sessionHandler.Create)
		r.Get("/sessions/{sessionId}/messages", sessionHandler.History)
		r.Post("/sessions/{sessionId}/messages", sessionHandler.Send)
		r.Delete("/sessions/{sessionId}/messages", sessionHandler.Clear)

		r.Post("/analyses", analysisHandler.Analyze)
		r.Post("/scores", analysisHandler.Score)

		r.Get("/reports/{reportId}/download", reportHandler.Download)
	})

	return r
}
