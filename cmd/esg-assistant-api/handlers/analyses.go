package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spherical-ai/esg-assistant/internal/assistant"
	"github.com/spherical-ai/esg-assistant/internal/domain"
	"github.com/spherical-ai/esg-assistant/internal/observability"
)

// AnalysisHandler serves the one-off ESG analysis and packaging score flows.
type AnalysisHandler struct {
	logger        *observability.Logger
	assistant     *assistant.Service
	maxUploadSize int64
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(logger *observability.Logger, svc *assistant.Service, maxUploadSize int64) *AnalysisHandler {
	return &AnalysisHandler{
		logger:        observability.OrNop(logger).WithOperation("analyses"),
		assistant:     svc,
		maxUploadSize: maxUploadSize,
	}
}

// AnalysisResponseDTO is the result of an ESG report analysis.
type AnalysisResponseDTO struct {
	ReportID     string `json:"reportId,omitempty"`
	Source       string `json:"source"`
	Analysis     string `json:"analysis"`
	Pages        int    `json:"pages"`
	SkippedPages []int  `json:"skippedPages,omitempty"`
}

// ScoreResponseDTO is the result of a packaging score.
type ScoreResponseDTO struct {
	ReportID   string `json:"reportId,omitempty"`
	Assessment string `json:"assessment"`
}

// Analyze handles POST /analyses with a multipart "file" field.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	// Allow some room for the multipart envelope.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+1<<20)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file is too large", err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "a PDF must be uploaded in the \"file\" field", err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read upload", err.Error())
		return
	}
	if int64(len(data)) > h.maxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, "file is too large", fmt.Sprintf("limit is %d bytes", h.maxUploadSize))
		return
	}

	result, err := h.assistant.AnalyzeBytes(r.Context(), header.Filename, data)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	resp := AnalysisResponseDTO{
		ReportID: result.ReportID,
		Source:   header.Filename,
		Analysis: result.Text,
	}
	if result.Document != nil {
		resp.Pages = result.Document.Pages
		resp.SkippedPages = result.Document.SkippedPages
	}
	writeJSON(w, http.StatusOK, resp)
}

// Score handles POST /scores.
func (h *AnalysisHandler) Score(w http.ResponseWriter, r *http.Request) {
	var params domain.PackagingParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.assistant.ScorePackaging(r.Context(), params)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ScoreResponseDTO{
		ReportID:   result.ReportID,
		Assessment: result.Text,
	})
}
