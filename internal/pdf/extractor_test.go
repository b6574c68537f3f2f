package pdf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/esg-assistant/internal/domain"
	"github.com/spherical-ai/esg-assistant/internal/observability"
)

// fakeDocument serves canned page texts; an entry in fail makes that page
// return an error and an entry in panics makes it panic.
type fakeDocument struct {
	pages  []string
	fail   map[int]bool
	panics map[int]bool
	closed bool
}

func (f *fakeDocument) NumPage() int { return len(f.pages) }

func (f *fakeDocument) PageText(i int) (string, error) {
	if f.panics[i] {
		panic("corrupt content stream")
	}
	if f.fail[i] {
		return "", errors.New("cannot decode page")
	}
	return f.pages[i], nil
}

func (f *fakeDocument) Close() error {
	f.closed = true
	return nil
}

var pdfHeader = []byte("%PDF-1.7\n")

func newFakeExtractor(doc *fakeDocument, openErr error) *Extractor {
	return &Extractor{
		engine: "fake",
		open: func([]byte) (pageReader, error) {
			if openErr != nil {
				return nil, openErr
			}
			return doc, nil
		},
		validator: NewValidator(0),
		logger:    observability.Nop(),
	}
}

func TestExtractBytes_ConcatenatesPages(t *testing.T) {
	doc := &fakeDocument{pages: []string{"Scope 1: 120 t. ", "Scope 2: 80 t."}}
	e := newFakeExtractor(doc, nil)

	got, err := e.ExtractBytes(context.Background(), "report.pdf", pdfHeader)

	require.NoError(t, err)
	assert.Equal(t, "Scope 1: 120 t. Scope 2: 80 t.", got.Text)
	assert.Equal(t, 2, got.Pages)
	assert.Empty(t, got.SkippedPages)
	assert.Equal(t, "report.pdf", got.Source)
	assert.True(t, doc.closed)
}

func TestExtractBytes_FailedPageIsBlank(t *testing.T) {
	doc := &fakeDocument{
		pages: []string{"Page one text.", "never returned"},
		fail:  map[int]bool{1: true},
	}

	got, err := newFakeExtractor(doc, nil).ExtractBytes(context.Background(), "report.pdf", pdfHeader)

	require.NoError(t, err)
	assert.Equal(t, "Page one text."+"", got.Text)
	assert.Equal(t, []int{2}, got.SkippedPages)
}

func TestExtractBytes_PanickingPageIsBlank(t *testing.T) {
	doc := &fakeDocument{
		pages:  []string{"a", "b", "c"},
		panics: map[int]bool{1: true},
	}

	got, err := newFakeExtractor(doc, nil).ExtractBytes(context.Background(), "report.pdf", pdfHeader)

	require.NoError(t, err)
	assert.Equal(t, "ac", got.Text)
	assert.Equal(t, []int{2}, got.SkippedPages)
}

func TestExtractBytes_OpenFailure(t *testing.T) {
	got, err := newFakeExtractor(nil, errors.New("no xref table")).ExtractBytes(context.Background(), "broken.pdf", pdfHeader)

	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindDocumentRead))
	require.NotNil(t, got)
	assert.Equal(t, "", got.Text)
	assert.Equal(t, "broken.pdf", got.Source)
}

func TestExtractBytes_ProgressCallback(t *testing.T) {
	doc := &fakeDocument{pages: []string{"a", "b", "c"}, fail: map[int]bool{2: true}}

	var seen [][2]int
	e := newFakeExtractor(doc, nil).WithProgress(func(page, total int) {
		seen = append(seen, [2]int{page, total})
	})

	_, err := e.ExtractBytes(context.Background(), "x.pdf", pdfHeader)

	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, seen)
}

func TestExtractBytes_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newFakeExtractor(&fakeDocument{pages: []string{"a"}}, nil).ExtractBytes(ctx, "x.pdf", pdfHeader)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractBytes_RejectsNonPDF(t *testing.T) {
	e := newFakeExtractor(&fakeDocument{}, nil)

	_, err := e.ExtractBytes(context.Background(), "empty.pdf", nil)
	assert.True(t, domain.IsKind(err, domain.KindDocumentRead))

	_, err = e.ExtractBytes(context.Background(), "notes.txt", []byte("just some notes"))
	assert.True(t, domain.IsKind(err, domain.KindDocumentRead))
}

func TestNativeEngine_GarbageDocument(t *testing.T) {
	e, err := NewExtractor(Config{Engine: EngineNative})
	require.NoError(t, err)

	got, err := e.ExtractBytes(context.Background(), "garbage.pdf", []byte("%PDF-1.4\nthis is not really a pdf"))

	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindDocumentRead))
	assert.Equal(t, "", got.Text)
}

func TestNewExtractor_UnknownEngine(t *testing.T) {
	_, err := NewExtractor(Config{Engine: "ocr"})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindConfiguration))
}

func TestNewExtractor_DefaultsToFitz(t *testing.T) {
	e, err := NewExtractor(Config{})
	require.NoError(t, err)
	assert.Equal(t, EngineFitz, e.engine)
}

func TestExtractFile_Validation(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(txt, []byte("Scope 1 emissions"), 0o600))
	big := filepath.Join(dir, "big.pdf")
	require.NoError(t, os.WriteFile(big, make([]byte, 2048), 0o600))

	e := newFakeExtractor(&fakeDocument{}, nil)
	e.validator = NewValidator(1024)

	tests := []struct {
		name string
		path string
		msg  string
	}{
		{"empty path", "  ", "cannot be empty"},
		{"missing", filepath.Join(dir, "nope.pdf"), "file not found"},
		{"directory", dir, "directory"},
		{"not a pdf", txt, "not a PDF"},
		{"too large", big, "too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.ExtractFile(context.Background(), tt.path)
			require.Error(t, err)
			assert.True(t, domain.IsKind(err, domain.KindDocumentRead))
			assert.Contains(t, err.Error(), tt.msg)
			assert.Equal(t, "", got.Text)
		})
	}
}

func TestExtractFile_ReadsAndExtracts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ESG Report 2024.PDF")
	require.NoError(t, os.WriteFile(path, pdfHeader, 0o600))

	got, err := newFakeExtractor(&fakeDocument{pages: []string{"Water use down 8%."}}, nil).
		ExtractFile(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "Water use down 8%.", got.Text)
	assert.Equal(t, path, got.Source)
}

func TestExtractFile_IgnoresFileName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report")
	require.NoError(t, os.WriteFile(path, pdfHeader, 0o600))

	got, err := newFakeExtractor(&fakeDocument{pages: []string{"Scope 2 market-based."}}, nil).
		ExtractFile(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "Scope 2 market-based.", got.Text)
}
