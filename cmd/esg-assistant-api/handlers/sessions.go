package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/spherical-ai/esg-assistant/internal/domain"
	"github.com/spherical-ai/esg-assistant/internal/observability"
	"github.com/spherical-ai/esg-assistant/internal/session"
)

// SessionHandler serves the chat endpoints. Each browser session owns one
// transcript.
type SessionHandler struct {
	logger   *observability.Logger
	sessions *session.Manager
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(logger *observability.Logger, sessions *session.Manager) *SessionHandler {
	return &SessionHandler{
		logger:   observability.OrNop(logger).WithOperation("sessions"),
		sessions: sessions,
	}
}

// SessionDTO is returned when a session is created.
type SessionDTO struct {
	SessionID string `json:"sessionId"`
}

// MessageRequestDTO carries one user message.
type MessageRequestDTO struct {
	Message string `json:"message"`
}

// MessageResponseDTO carries the assistant reply.
type MessageResponseDTO struct {
	Reply string `json:"reply"`
}

// HistoryDTO lists the turns after the persona.
type HistoryDTO struct {
	SessionID string        `json:"sessionId"`
	Messages  []domain.Turn `json:"messages"`
}

// Create handles POST /sessions.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := h.sessions.Create(r.Context())
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, SessionDTO{SessionID: id})
}

// History handles GET /sessions/{sessionId}/messages.
func (h *SessionHandler) History(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionId")

	turns, err := h.sessions.History(r.Context(), id)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	if turns == nil {
		turns = []domain.Turn{}
	}
	writeJSON(w, http.StatusOK, HistoryDTO{SessionID: id, Messages: turns})
}

// Send handles POST /sessions/{sessionId}/messages.
func (h *SessionHandler) Send(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionId")

	var req MessageRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	reply, err := h.sessions.Ask(r.Context(), id, req.Message)
	if err != nil {
		writeDomainError(w, h.logger.WithSession(id), err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponseDTO{Reply: reply})
}

// Clear handles DELETE /sessions/{sessionId}/messages.
func (h *SessionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionId")

	if err := h.sessions.Reset(r.Context(), id); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
