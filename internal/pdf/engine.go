package pdf

import (
	"bytes"
	"fmt"

	"github.com/gen2brain/go-fitz"
	ledongthuc "github.com/ledongthuc/pdf"
)

// Engine names a PDF text backend.
type Engine string

const (
	// EngineFitz uses MuPDF through go-fitz.
	EngineFitz Engine = "fitz"
	// EngineNative uses the pure Go ledongthuc/pdf parser.
	EngineNative Engine = "native"
)

// pageReader is the per-page view the extractor iterates over. Pages are
// zero-indexed.
type pageReader interface {
	NumPage() int
	PageText(i int) (string, error)
	Close() error
}

type opener func(data []byte) (pageReader, error)

func openerFor(engine Engine) (opener, error) {
	switch engine {
	case EngineFitz, "":
		return openFitz, nil
	case EngineNative:
		return openNative, nil
	default:
		return nil, fmt.Errorf("unknown pdf engine %q", engine)
	}
}

type fitzDocument struct {
	doc *fitz.Document
}

func openFitz(data []byte) (pageReader, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, err
	}
	return &fitzDocument{doc: doc}, nil
}

func (d *fitzDocument) NumPage() int { return d.doc.NumPage() }

func (d *fitzDocument) PageText(i int) (string, error) { return d.doc.Text(i) }

func (d *fitzDocument) Close() error { return d.doc.Close() }

type nativeDocument struct {
	r *ledongthuc.Reader
}

func openNative(data []byte) (pageReader, error) {
	r, err := ledongthuc.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return &nativeDocument{r: r}, nil
}

func (d *nativeDocument) NumPage() int { return d.r.NumPage() }

func (d *nativeDocument) PageText(i int) (string, error) {
	page := d.r.Page(i + 1)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

func (d *nativeDocument) Close() error { return nil }
