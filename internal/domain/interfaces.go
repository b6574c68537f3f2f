package domain

import "context"

// Completer performs one chat-completion round trip
type Completer interface {
	// Complete sends the transcript and returns the first choice's reply.
	// Errors are always *Error values classified by Kind.
	Complete(ctx context.Context, transcript []Turn) (string, error)
}

// DocumentExtractor turns a PDF into text
type DocumentExtractor interface {
	// ExtractFile reads and extracts a PDF from the local filesystem
	ExtractFile(ctx context.Context, path string) (*ExtractedDocument, error)

	// ExtractBytes extracts an in-memory PDF, e.g. an upload
	ExtractBytes(ctx context.Context, source string, data []byte) (*ExtractedDocument, error)
}
