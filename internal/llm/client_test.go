package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/esg-assistant/internal/domain"
)

var transcript = []domain.Turn{
	domain.SystemTurn("You are a sustainability expert."),
	domain.UserTurn("What is LCA?"),
}

func newTestClient(t *testing.T, url string, mutate ...func(*Config)) *Client {
	t.Helper()
	cfg := Config{
		APIKey:      "gsk-test",
		BaseURL:     url,
		Temperature: 0.7,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantKind domain.ErrorKind
	}{
		{name: "defaults", cfg: Config{APIKey: "k", Temperature: 0.7}},
		{name: "custom model", cfg: Config{APIKey: "k", Model: "mixtral-8x7b-32768"}},
		{name: "empty api key", cfg: Config{APIKey: " "}, wantKind: domain.KindConfiguration},
		{name: "temperature out of range", cfg: Config{APIKey: "k", Temperature: 2}, wantKind: domain.KindConfiguration},
		{name: "negative max tokens", cfg: Config{APIKey: "k", MaxTokens: -5}, wantKind: domain.KindConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, domain.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultBaseURL, client.baseURL)
			assert.Equal(t, DefaultMaxTokens, client.Sampling().MaxTokens)
			assert.Equal(t, DefaultTimeout, client.timeout)
			if tt.cfg.Model == "" {
				assert.Equal(t, DefaultModel, client.Sampling().Model)
			} else {
				assert.Equal(t, tt.cfg.Model, client.Sampling().Model)
			}
		})
	}
}

func TestComplete_Success(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer gsk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"  LCA is...\n"},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	reply, err := client.Complete(context.Background(), transcript)

	require.NoError(t, err)
	assert.Equal(t, "  LCA is...\n", reply, "reply is passed through verbatim")

	assert.Equal(t, DefaultModel, gotBody["model"])
	assert.Equal(t, 0.7, gotBody["temperature"])
	assert.Equal(t, float64(DefaultMaxTokens), gotBody["max_tokens"])
	messages, ok := gotBody["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, map[string]interface{}{"role": "system", "content": "You are a sustainability expert."}, messages[0])
	assert.Equal(t, map[string]interface{}{"role": "user", "content": "What is LCA?"}, messages[1])
}

func TestComplete_DoesNotMutateTranscript(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	}))
	defer server.Close()

	input := append([]domain.Turn(nil), transcript...)
	_, err := newTestClient(t, server.URL).Complete(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, transcript, input)
}

func TestComplete_EmptyReplyIsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":""}}]}`)
	}))
	defer server.Close()

	reply, err := newTestClient(t, server.URL).Complete(context.Background(), transcript)
	require.NoError(t, err)
	assert.Equal(t, "", reply)
}

func TestComplete_ServiceError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"message":"upstream exploded"}}`)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Complete(context.Background(), transcript)

	require.Error(t, err)
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.KindService, de.Kind)
	assert.Equal(t, http.StatusInternalServerError, de.StatusCode)
	assert.Contains(t, de.Body, "upstream exploded")
	assert.Equal(t, 1, calls, "no automatic retry")
}

func TestComplete_RateLimitedIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"message":"rate limit reached"}}`)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Complete(context.Background(), transcript)

	assert.True(t, domain.IsKind(err, domain.KindService))
	assert.True(t, domain.IsRetryable(err))
}

func TestComplete_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"Invalid API Key"}}`)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Complete(context.Background(), transcript)

	assert.True(t, domain.IsKind(err, domain.KindService))
	assert.False(t, domain.IsRetryable(err))
	assert.Contains(t, err.Error(), "Invalid API Key")
}

func TestComplete_ProtocolErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>gateway</html>`},
		{"no choices", `{"choices":[]}`},
		{"missing choices", `{"id":"abc"}`},
		{"missing content", `{"choices":[{"message":{"role":"assistant"}}]}`},
		{"null content", `{"choices":[{"message":{"role":"assistant","content":null}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			_, err := newTestClient(t, server.URL).Complete(context.Background(), transcript)

			require.Error(t, err)
			assert.Equal(t, domain.KindProtocol, domain.KindOf(err))
		})
	}
}

func TestComplete_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(t, url).Complete(context.Background(), transcript)

	require.Error(t, err)
	assert.Equal(t, domain.KindTransport, domain.KindOf(err))
	assert.True(t, domain.IsRetryable(err))
}

func TestComplete_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := newTestClient(t, server.URL, func(c *Config) { c.Timeout = 50 * time.Millisecond })
	_, err := client.Complete(context.Background(), transcript)

	require.Error(t, err)
	assert.Equal(t, domain.KindTransport, domain.KindOf(err))
	assert.Contains(t, err.Error(), "timed out")
}

func TestComplete_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := newTestClient(t, server.URL).Complete(ctx, transcript)

	require.Error(t, err)
	assert.Equal(t, domain.KindTransport, domain.KindOf(err))
	assert.True(t, strings.Contains(err.Error(), "cancelled"))
}
