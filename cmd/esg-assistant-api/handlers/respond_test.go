package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spherical-ai/esg-assistant/internal/domain"
	"github.com/spherical-ai/esg-assistant/internal/session"
	"github.com/spherical-ai/esg-assistant/internal/storage"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.InvalidInputError("blank", nil), http.StatusBadRequest},
		{domain.DocumentReadError("not a PDF", nil), http.StatusBadRequest},
		{domain.ServiceError(500, "boom"), http.StatusBadGateway},
		{domain.ProtocolError("no choices", nil), http.StatusBadGateway},
		{domain.TransportError("timed out", nil), http.StatusGatewayTimeout},
		{domain.ConfigurationError("no key", nil), http.StatusInternalServerError},
		{fmt.Errorf("load: %w", session.ErrNotFound), http.StatusNotFound},
		{storage.ErrNotFound, http.StatusNotFound},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}
