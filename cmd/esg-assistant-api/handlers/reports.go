package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/spherical-ai/esg-assistant/internal/observability"
	"github.com/spherical-ai/esg-assistant/internal/storage"
)

// ReportStore reads archived reports.
type ReportStore interface {
	Get(ctx context.Context, id uuid.UUID) (*storage.Report, error)
}

// ReportHandler serves archived reports as downloads.
type ReportHandler struct {
	logger  *observability.Logger
	reports ReportStore
}

// NewReportHandler creates a new report handler. reports may be nil when the
// archive is disabled.
func NewReportHandler(logger *observability.Logger, reports ReportStore) *ReportHandler {
	return &ReportHandler{
		logger:  observability.OrNop(logger).WithOperation("reports"),
		reports: reports,
	}
}

// Download handles GET /reports/{reportId}/download.
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	if h.reports == nil {
		writeError(w, http.StatusNotFound, "report archive is disabled", "")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "reportId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report ID", err.Error())
		return
	}

	report, err := h.reports.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.DownloadName()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(report.Content))
}
