// Package handlers provides HTTP handlers for the ESG assistant API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spherical-ai/esg-assistant/internal/domain"
	"github.com/spherical-ai/esg-assistant/internal/observability"
	"github.com/spherical-ai/esg-assistant/internal/session"
	"github.com/spherical-ai/esg-assistant/internal/storage"
)

// ErrorResponseDTO is the body of every non-2xx response.
type ErrorResponseDTO struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	Kind       string `json:"kind,omitempty"`
	Detail     string `json:"detail,omitempty"`
	StatusCode int    `json:"upstreamStatus,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	writeJSON(w, status, ErrorResponseDTO{
		Error:   message,
		Message: message,
		Detail:  detail,
	})
}

// writeDomainError maps a failed operation to an HTTP status.
func writeDomainError(w http.ResponseWriter, logger *observability.Logger, err error) {
	status := StatusFor(err)

	resp := ErrorResponseDTO{
		Error:   http.StatusText(status),
		Message: err.Error(),
		Kind:    string(domain.KindOf(err)),
	}

	var de *domain.Error
	if errors.As(err, &de) {
		resp.Message = de.Message
		if de.Kind == domain.KindService {
			resp.StatusCode = de.StatusCode
			resp.Detail = de.Body
		} else if de.Err != nil {
			resp.Detail = de.Err.Error()
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", status).Msg("request failed")
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	writeJSON(w, status, resp)
}

// StatusFor returns the HTTP status for err.
func StatusFor(err error) int {
	if errors.Is(err, session.ErrNotFound) || errors.Is(err, storage.ErrNotFound) {
		return http.StatusNotFound
	}

	switch domain.KindOf(err) {
	case domain.KindInvalidInput, domain.KindDocumentRead:
		return http.StatusBadRequest
	case domain.KindService, domain.KindProtocol:
		return http.StatusBadGateway
	case domain.KindTransport:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
