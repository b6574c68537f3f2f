package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionRequest_WireFormat(t *testing.T) {
	req := NewCompletionRequest(
		SamplingConfig{Model: "llama-3.3-70b-versatile", Temperature: 0.7, MaxTokens: 800},
		[]Turn{SystemTurn("persona"), UserTurn("What is LCA?")},
	)

	data, err := json.Marshal(req)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"model": "llama-3.3-70b-versatile",
		"messages": [
			{"role": "system", "content": "persona"},
			{"role": "user", "content": "What is LCA?"}
		],
		"temperature": 0.7,
		"max_tokens": 800
	}`, string(data))
}

func TestNewCompletionRequest_CopiesTranscript(t *testing.T) {
	transcript := []Turn{SystemTurn("p"), UserTurn("q")}
	req := NewCompletionRequest(SamplingConfig{Model: "m", MaxTokens: 1}, transcript)

	transcript[1] = UserTurn("changed")
	assert.Equal(t, "q", req.Messages[1].Content)
}

func TestSamplingConfig_Validate(t *testing.T) {
	assert.NoError(t, SamplingConfig{Model: "m", Temperature: 0, MaxTokens: 1}.Validate())
	assert.NoError(t, SamplingConfig{Model: "m", Temperature: 1, MaxTokens: 1}.Validate())

	for _, bad := range []SamplingConfig{
		{Model: "", Temperature: 0.5, MaxTokens: 10},
		{Model: "m", Temperature: 1.01, MaxTokens: 10},
		{Model: "m", Temperature: math.NaN(), MaxTokens: 10},
		{Model: "m", Temperature: 0.5, MaxTokens: 0},
	} {
		err := bad.Validate()
		require.Error(t, err, "%+v", bad)
		assert.True(t, IsKind(err, KindConfiguration))
	}
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleSystem.Valid())
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAssistant.Valid())
	assert.False(t, Role("tool").Valid())
}

func TestParseMaterial(t *testing.T) {
	m, err := ParseMaterial("  glass ")
	require.NoError(t, err)
	assert.Equal(t, MaterialGlass, m)

	m, err = ParseMaterial("BIOPLASTIC")
	require.NoError(t, err)
	assert.Equal(t, MaterialBioplastic, m)

	_, err = ParseMaterial("wood")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInvalidInput))
	assert.Contains(t, err.Error(), "Plastic, Glass, Aluminum")
}

func TestPackagingParams_Validate(t *testing.T) {
	assert.NoError(t, PackagingParams{Material: MaterialPaper, WeightGrams: 0}.Validate())
	assert.NoError(t, PackagingParams{Material: MaterialGlass, WeightGrams: 150, Recyclable: true}.Validate())

	err := PackagingParams{Material: MaterialPaper, WeightGrams: -1}.Validate()
	assert.True(t, IsKind(err, KindInvalidInput))

	err = PackagingParams{Material: "Steel", WeightGrams: 10}.Validate()
	assert.True(t, IsKind(err, KindInvalidInput))

	err = PackagingParams{Material: MaterialOther, WeightGrams: math.Inf(1)}.Validate()
	assert.True(t, IsKind(err, KindInvalidInput))
}

func TestExtractedDocument_HasText(t *testing.T) {
	var nilDoc *ExtractedDocument
	assert.False(t, nilDoc.HasText())
	assert.False(t, (&ExtractedDocument{Text: " \n\t"}).HasText())
	assert.True(t, (&ExtractedDocument{Text: "Scope 1 emissions"}).HasText())
}

func TestError_Formatting(t *testing.T) {
	err := ServiceError(500, `{"error":"boom"}`)
	assert.Equal(t, `[service] completion endpoint returned an error (status 500): {"error":"boom"}`, err.Error())

	cause := errors.New("dial tcp: refused")
	terr := TransportError("completion request failed", cause)
	assert.Equal(t, "[transport] completion request failed: dial tcp: refused", terr.Error())
	assert.ErrorIs(t, terr, cause)
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("ask: %w", ProtocolError("missing content", nil))
	assert.Equal(t, KindProtocol, KindOf(err))
	assert.True(t, IsKind(err, KindProtocol))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"transport", TransportError("timeout", nil), true},
		{"rate limited", ServiceError(429, ""), true},
		{"server error", ServiceError(500, ""), true},
		{"bad gateway", ServiceError(502, ""), true},
		{"unavailable", ServiceError(503, ""), true},
		{"gateway timeout", ServiceError(504, ""), true},
		{"unauthorized", ServiceError(401, ""), false},
		{"bad request", ServiceError(400, ""), false},
		{"protocol", ProtocolError("x", nil), false},
		{"invalid input", InvalidInputError("x", nil), false},
		{"plain", errors.New("x"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
