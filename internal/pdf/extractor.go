// Package pdf extracts best-effort text from PDF documents.
package pdf

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spherical-ai/esg-assistant/internal/domain"
	"github.com/spherical-ai/esg-assistant/internal/observability"
)

// Config holds extractor configuration
type Config struct {
	Engine      Engine
	MaxFileSize int64
	Logger      *observability.Logger
	// OnPage is called after each page with the 1-based page number.
	OnPage func(page, total int)
}

// Extractor implements domain.DocumentExtractor
type Extractor struct {
	engine    Engine
	open      opener
	validator *Validator
	logger    *observability.Logger
	onPage    func(page, total int)
}

var _ domain.DocumentExtractor = (*Extractor)(nil)

// NewExtractor creates an extractor for the configured engine
func NewExtractor(cfg Config) (*Extractor, error) {
	open, err := openerFor(cfg.Engine)
	if err != nil {
		return nil, domain.ConfigurationError("invalid pdf engine", err)
	}
	engine := cfg.Engine
	if engine == "" {
		engine = EngineFitz
	}
	return &Extractor{
		engine:    engine,
		open:      open,
		validator: NewValidator(cfg.MaxFileSize),
		logger:    observability.OrNop(cfg.Logger).WithOperation("pdf_extract"),
		onPage:    cfg.OnPage,
	}, nil
}

// WithProgress returns a copy of e that reports page progress to fn.
func (e *Extractor) WithProgress(fn func(page, total int)) *Extractor {
	clone := *e
	clone.onPage = fn
	return &clone
}

// ExtractFile validates and extracts a PDF from disk
func (e *Extractor) ExtractFile(ctx context.Context, path string) (*domain.ExtractedDocument, error) {
	if err := e.validator.ValidatePath(path); err != nil {
		return &domain.ExtractedDocument{Source: path}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return &domain.ExtractedDocument{Source: path}, domain.DocumentReadError(fmt.Sprintf("cannot read file: %s", path), err)
	}

	return e.ExtractBytes(ctx, path, data)
}

// ExtractBytes extracts text from an in-memory PDF. Pages that fail are left
// blank and listed in SkippedPages; only a document that cannot be opened at
// all is an error.
func (e *Extractor) ExtractBytes(ctx context.Context, source string, data []byte) (*domain.ExtractedDocument, error) {
	doc := &domain.ExtractedDocument{Source: source}

	if err := e.validator.ValidateBytes(data); err != nil {
		return doc, err
	}

	reader, err := e.safeOpen(data)
	if err != nil {
		e.logger.Warn().Str("source", source).Str("engine", string(e.engine)).Err(err).Msg("failed to open PDF")
		return doc, domain.DocumentReadError("could not read PDF", err)
	}
	defer reader.Close()

	if err := extractPages(ctx, reader, doc, e.onPage); err != nil {
		return doc, err
	}

	e.logger.Debug().
		Str("source", source).
		Str("engine", string(e.engine)).
		Int("pages", doc.Pages).
		Ints("skipped_pages", doc.SkippedPages).
		Int("chars", len(doc.Text)).
		Msg("PDF text extracted")

	return doc, nil
}

func (e *Extractor) safeOpen(data []byte) (r pageReader, err error) {
	defer func() {
		if p := recover(); p != nil {
			r, err = nil, fmt.Errorf("parser panic: %v", p)
		}
	}()
	return e.open(data)
}

func extractPages(ctx context.Context, reader pageReader, doc *domain.ExtractedDocument, onPage func(page, total int)) error {
	total := reader.NumPage()
	doc.Pages = total

	var text strings.Builder
	for i := 0; i < total; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		pageText, err := safePageText(reader, i)
		if err != nil {
			doc.SkippedPages = append(doc.SkippedPages, i+1)
		} else {
			text.WriteString(pageText)
		}

		if onPage != nil {
			onPage(i+1, total)
		}
	}

	doc.Text = text.String()
	return nil
}

func safePageText(reader pageReader, i int) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("page %d: parser panic: %v", i+1, p)
		}
	}()
	return reader.PageText(i)
}
