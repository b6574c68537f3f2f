// Package llm talks to an OpenAI-compatible chat-completion endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spherical-ai/esg-assistant/internal/domain"
	"github.com/spherical-ai/esg-assistant/internal/observability"
)

const (
	DefaultBaseURL     = "https://api.groq.com/openai/v1/chat/completions"
	DefaultModel       = "llama-3.3-70b-versatile"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 800
	DefaultTimeout     = 30 * time.Second

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 1 << 20
)

// Config holds client configuration. Zero values fall back to the defaults above,
// except APIKey which is required.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	HTTPClient  *http.Client
	Logger      *observability.Logger
}

// Client handles communication with the chat-completion endpoint
type Client struct {
	apiKey     string
	baseURL    string
	sampling   domain.SamplingConfig
	timeout    time.Duration
	httpClient *http.Client
	logger     *observability.Logger
}

var _ domain.Completer = (*Client)(nil)

// response is the subset of the completion response we read. Content is a
// pointer so an absent field can be told apart from an empty reply.
type response struct {
	Choices []struct {
		Message struct {
			Role    string  `json:"role"`
			Content *string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// NewClient creates a new completion client
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, domain.ConfigurationError("API key is required", nil)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}

	sampling := domain.SamplingConfig{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}
	if err := sampling.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		sampling:   sampling,
		timeout:    cfg.Timeout,
		httpClient: cfg.HTTPClient,
		logger:     observability.OrNop(cfg.Logger).WithOperation("completion"),
	}, nil
}

// Sampling returns the parameters sent with every request.
func (c *Client) Sampling() domain.SamplingConfig {
	return c.sampling
}

// Complete sends the transcript and returns the first choice's reply verbatim.
// It makes exactly one request and never modifies transcript.
func (c *Client) Complete(ctx context.Context, transcript []domain.Turn) (string, error) {
	body, err := json.Marshal(domain.NewCompletionRequest(c.sampling, transcript))
	if err != nil {
		return "", domain.ProtocolError("failed to marshal request", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", domain.ConfigurationError("failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	c.logger.Debug().
		Str("model", c.sampling.Model).
		Int("messages", len(transcript)).
		Msg("sending completion request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransport(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", classifyTransport(ctx, err)
	}

	c.logger.Debug().
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Int("bytes", len(data)).
		Msg("completion response received")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", domain.ServiceError(resp.StatusCode, string(data))
	}

	return parseReply(data)
}

func parseReply(data []byte) (string, error) {
	var parsed response
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", domain.ProtocolError("response body is not valid JSON", err)
	}
	if len(parsed.Choices) == 0 {
		return "", domain.ProtocolError("response contains no choices", nil)
	}
	content := parsed.Choices[0].Message.Content
	if content == nil {
		return "", domain.ProtocolError("first choice has no message content", nil)
	}
	return *content, nil
}

func classifyTransport(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return domain.TransportError("completion request timed out", err)
	case errors.Is(ctx.Err(), context.Canceled):
		return domain.TransportError("completion request cancelled", err)
	default:
		return domain.TransportError("completion request failed", err)
	}
}

