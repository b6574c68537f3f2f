package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spherical-ai/esg-assistant/internal/domain"
)

// DefaultMaxFileSize is used when no limit is configured.
const DefaultMaxFileSize = 100 * 1024 * 1024

// headerWindow is how far into the data the %PDF- marker may appear.
const headerWindow = 1024

// Validator provides input validation for PDF files
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new validator instance
func NewValidator(maxFileSize int64) *Validator {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Validator{maxFileSize: maxFileSize}
}

// ValidatePath checks that path names a readable file within the size limit.
// The name is not checked; content is checked by ValidateBytes.
func (v *Validator) ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return domain.DocumentReadError("file path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.DocumentReadError(fmt.Sprintf("file not found: %s", path), err)
		}
		return domain.DocumentReadError(fmt.Sprintf("cannot access file: %s", path), err)
	}

	if info.IsDir() {
		return domain.DocumentReadError(fmt.Sprintf("path is a directory, not a file: %s", path), nil)
	}

	if info.Size() > v.maxFileSize {
		return domain.DocumentReadError(fmt.Sprintf("file is too large (%d MB, limit %d MB)", info.Size()>>20, v.maxFileSize>>20), nil)
	}

	file, err := os.Open(path)
	if err != nil {
		return domain.DocumentReadError(fmt.Sprintf("cannot open file: %s", path), err)
	}
	file.Close()

	return nil
}

// ValidateBytes checks an in-memory upload before it is parsed
func (v *Validator) ValidateBytes(data []byte) error {
	if len(data) == 0 {
		return domain.DocumentReadError("document is empty", nil)
	}

	if int64(len(data)) > v.maxFileSize {
		return domain.DocumentReadError(fmt.Sprintf("document is too large (%d MB, limit %d MB)", len(data)>>20, v.maxFileSize>>20), nil)
	}

	window := data
	if len(window) > headerWindow {
		window = window[:headerWindow]
	}
	if !bytes.Contains(window, []byte("%PDF-")) {
		return domain.DocumentReadError("document is not a PDF", nil)
	}

	return nil
}
