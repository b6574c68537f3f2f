// Package assistant dispatches chat turns, document analyses and packaging
// scores to the completion endpoint.
package assistant

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spherical-ai/esg-assistant/internal/conversation"
	"github.com/spherical-ai/esg-assistant/internal/domain"
	"github.com/spherical-ai/esg-assistant/internal/observability"
	"github.com/spherical-ai/esg-assistant/internal/prompt"
	"github.com/spherical-ai/esg-assistant/internal/storage"
)

// ReportSink archives successful analyses and scores.
type ReportSink interface {
	Save(ctx context.Context, report *storage.Report) error
}

// Result is the outcome of a one-off analysis or score request.
type Result struct {
	Text     string
	ReportID string
	Document *domain.ExtractedDocument
}

// Service orchestrates the assistant flows
type Service struct {
	completer domain.Completer
	extractor domain.DocumentExtractor
	persona   string
	reports   ReportSink
	observer  func(Event)
	logger    *observability.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithReportSink archives successful document analyses and scores.
func WithReportSink(sink ReportSink) Option {
	return func(s *Service) { s.reports = sink }
}

// WithObserver reports progress events to fn. fn runs on the calling
// goroutine and must not block.
func WithObserver(fn func(Event)) Option {
	return func(s *Service) { s.observer = fn }
}

// WithLogger sets the service logger.
func WithLogger(l *observability.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New creates a new assistant service
func New(completer domain.Completer, extractor domain.DocumentExtractor, persona string, opts ...Option) *Service {
	s := &Service{
		completer: completer,
		extractor: extractor,
		persona:   persona,
		logger:    observability.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = observability.OrNop(s.logger).WithOperation("assistant")
	return s
}

// NewConversation starts a transcript with the configured persona.
func (s *Service) NewConversation() *conversation.State {
	return conversation.New(s.persona)
}

// Persona returns the system prompt text.
func (s *Service) Persona() string {
	return s.persona
}

// Ask submits question in the context of state. The user and assistant turns
// are committed together on success; on any failure state is left exactly as
// it was.
func (s *Service) Ask(ctx context.Context, state *conversation.State, question string) (string, error) {
	before := state.Len()
	if err := state.AppendUser(question); err != nil {
		return "", err
	}

	start := time.Now()
	s.emit(Event{Type: EventRequesting})

	reply, err := s.completer.Complete(ctx, state.Snapshot())
	if err != nil {
		state.Rewind(before)
		s.logger.Warn().
			Str("kind", string(domain.KindOf(err))).
			Err(err).
			Msg("chat turn failed")
		s.emitError(err)
		return "", err
	}

	state.AppendAssistant(reply)
	s.logger.Debug().
		Int("turns", state.Len()).
		Dur("duration", time.Since(start)).
		Msg("chat turn committed")
	s.emit(Event{Type: EventComplete})

	return reply, nil
}

// AnalyzeFile extracts a PDF from disk and analyzes it.
func (s *Service) AnalyzeFile(ctx context.Context, path string) (*Result, error) {
	s.emit(Event{Type: EventExtracting, Payload: path})
	doc, err := s.extractor.ExtractFile(ctx, path)
	if err != nil {
		s.emitError(err)
		return &Result{Document: doc}, err
	}
	return s.AnalyzeDocument(ctx, doc)
}

// AnalyzeBytes extracts an uploaded PDF and analyzes it.
func (s *Service) AnalyzeBytes(ctx context.Context, name string, data []byte) (*Result, error) {
	s.emit(Event{Type: EventExtracting, Payload: name})
	doc, err := s.extractor.ExtractBytes(ctx, name, data)
	if err != nil {
		s.emitError(err)
		return &Result{Document: doc}, err
	}
	return s.AnalyzeDocument(ctx, doc)
}

// AnalyzeDocument asks for a summary, benchmark and recommendations for an
// already extracted document. It never touches any conversation.
func (s *Service) AnalyzeDocument(ctx context.Context, doc *domain.ExtractedDocument) (*Result, error) {
	result := &Result{Document: doc}
	if !doc.HasText() {
		err := domain.DocumentReadError("no text could be extracted from the report", nil)
		s.emitError(err)
		return result, err
	}

	s.emit(Event{Type: EventExtracted, Payload: fmt.Sprintf("%d pages", doc.Pages)})
	if len(doc.SkippedPages) > 0 {
		s.logger.Warn().
			Str("source", doc.Source).
			Ints("skipped_pages", doc.SkippedPages).
			Msg("some pages could not be read")
	}

	text, err := s.oneOff(ctx, prompt.RenderESGAnalysisPrompt(doc.Text))
	if err != nil {
		return result, err
	}
	result.Text = text
	result.ReportID = s.archive(ctx, &storage.Report{
		Kind:    storage.ReportKindESGAnalysis,
		Source:  doc.Source,
		Content: text,
		Pages:   doc.Pages,
	})
	return result, nil
}

// ScorePackaging asks for a sustainability score for the given packaging.
func (s *Service) ScorePackaging(ctx context.Context, params domain.PackagingParams) (*Result, error) {
	if err := params.Validate(); err != nil {
		return &Result{}, err
	}

	material, _ := domain.ParseMaterial(string(params.Material))
	text, err := s.oneOff(ctx, prompt.RenderSustainabilityScorePrompt(
		string(material), params.WeightGrams, params.Recyclable, params.Renewable,
	))
	if err != nil {
		return &Result{}, err
	}

	result := &Result{Text: text}
	result.ReportID = s.archive(ctx, &storage.Report{
		Kind:    storage.ReportKindPackagingScore,
		Source:  fmt.Sprintf("%s %sg", material, formatWeight(params.WeightGrams)),
		Content: text,
	})
	return result, nil
}

// oneOff sends [persona, prompt] as a throwaway transcript.
func (s *Service) oneOff(ctx context.Context, userPrompt string) (string, error) {
	s.emit(Event{Type: EventRequesting})
	state := conversation.New(s.persona)
	if err := state.AppendUser(userPrompt); err != nil {
		return "", err
	}

	text, err := s.completer.Complete(ctx, state.Snapshot())
	if err != nil {
		s.logger.Warn().
			Str("kind", string(domain.KindOf(err))).
			Err(err).
			Msg("one-off request failed")
		s.emitError(err)
		return "", err
	}
	s.emit(Event{Type: EventComplete})
	return text, nil
}

// archive stores the report if a sink is configured. Archive failures are
// logged and never fail the request.
func (s *Service) archive(ctx context.Context, report *storage.Report) string {
	if s.reports == nil {
		return ""
	}
	if err := s.reports.Save(ctx, report); err != nil {
		s.logger.Error().Err(err).Str("kind", string(report.Kind)).Msg("failed to archive report")
		return ""
	}
	return report.ID.String()
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
