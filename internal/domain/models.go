package domain

import (
	"fmt"
	"math"
	"strings"
)

// Role identifies the author of a chat turn
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Turn is a single chat message. Values are never modified after creation.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemTurn, UserTurn and AssistantTurn are shorthands for building turns.
func SystemTurn(content string) Turn    { return Turn{Role: RoleSystem, Content: content} }
func UserTurn(content string) Turn      { return Turn{Role: RoleUser, Content: content} }
func AssistantTurn(content string) Turn { return Turn{Role: RoleAssistant, Content: content} }

// SamplingConfig holds the per-deployment completion parameters
type SamplingConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Validate checks the sampling parameters against the endpoint's accepted ranges.
func (s SamplingConfig) Validate() error {
	if strings.TrimSpace(s.Model) == "" {
		return ConfigurationError("model identifier is required", nil)
	}
	if s.Temperature < 0 || s.Temperature > 1 || math.IsNaN(s.Temperature) {
		return ConfigurationError(fmt.Sprintf("temperature must be between 0 and 1, got %v", s.Temperature), nil)
	}
	if s.MaxTokens <= 0 {
		return ConfigurationError(fmt.Sprintf("max tokens must be positive, got %d", s.MaxTokens), nil)
	}
	return nil
}

// CompletionRequest is the request body sent to the chat-completion endpoint
type CompletionRequest struct {
	Model       string  `json:"model"`
	Messages    []Turn  `json:"messages"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// NewCompletionRequest builds a fresh request from a transcript snapshot.
func NewCompletionRequest(sampling SamplingConfig, transcript []Turn) CompletionRequest {
	messages := make([]Turn, len(transcript))
	copy(messages, transcript)
	return CompletionRequest{
		Model:       sampling.Model,
		Messages:    messages,
		Temperature: sampling.Temperature,
		MaxTokens:   sampling.MaxTokens,
	}
}

// ExtractedDocument is the text pulled out of one uploaded or opened PDF.
// It lives for exactly one analysis prompt.
type ExtractedDocument struct {
	Source       string `json:"source"`
	Text         string `json:"-"`
	Pages        int    `json:"pages"`
	SkippedPages []int  `json:"skipped_pages,omitempty"`
}

// HasText reports whether anything besides whitespace was extracted.
func (d *ExtractedDocument) HasText() bool {
	return d != nil && strings.TrimSpace(d.Text) != ""
}

// Material is a packaging material accepted by the score form
type Material string

const (
	MaterialPlastic     Material = "Plastic"
	MaterialGlass       Material = "Glass"
	MaterialAluminum    Material = "Aluminum"
	MaterialPaper       Material = "Paper"
	MaterialBioplastic  Material = "Bioplastic"
	MaterialCompostable Material = "Compostable"
	MaterialOther       Material = "Other"
)

// Materials lists the supported materials in display order.
var Materials = []Material{
	MaterialPlastic,
	MaterialGlass,
	MaterialAluminum,
	MaterialPaper,
	MaterialBioplastic,
	MaterialCompostable,
	MaterialOther,
}

// ParseMaterial matches s case-insensitively against Materials.
func ParseMaterial(s string) (Material, error) {
	s = strings.TrimSpace(s)
	for _, m := range Materials {
		if strings.EqualFold(string(m), s) {
			return m, nil
		}
	}
	return "", InvalidInputError(fmt.Sprintf("unknown material %q (expected one of %s)", s, MaterialNames()), nil)
}

// MaterialNames returns the supported materials as a comma separated list.
func MaterialNames() string {
	names := make([]string, len(Materials))
	for i, m := range Materials {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// PackagingParams are the four inputs of the sustainability score flow
type PackagingParams struct {
	Material    Material `json:"material"`
	WeightGrams float64  `json:"weightGrams"`
	Recyclable  bool     `json:"recyclable"`
	Renewable   bool     `json:"renewable"`
}

// Validate constrains the parameters before a prompt is rendered from them.
func (p PackagingParams) Validate() error {
	if _, err := ParseMaterial(string(p.Material)); err != nil {
		return err
	}
	if p.WeightGrams < 0 || math.IsNaN(p.WeightGrams) || math.IsInf(p.WeightGrams, 0) {
		return InvalidInputError(fmt.Sprintf("weight must be a non-negative number of grams, got %v", p.WeightGrams), nil)
	}
	return nil
}
