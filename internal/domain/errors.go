package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a domain error so callers can branch on it instead of
// inspecting message strings.
type ErrorKind string

const (
	KindInvalidInput  ErrorKind = "invalid_input"
	KindDocumentRead  ErrorKind = "document_read"
	KindTransport     ErrorKind = "transport"
	KindService       ErrorKind = "service"
	KindProtocol      ErrorKind = "protocol"
	KindConfiguration ErrorKind = "configuration"
)

// Error represents a classified error with context
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error

	// StatusCode and Body are only set for KindService.
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Kind == KindService && e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
		if e.Body != "" {
			msg = fmt.Sprintf("%s: %s", msg, e.Body)
		}
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new domain error
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func InvalidInputError(message string, err error) *Error {
	return NewError(KindInvalidInput, message, err)
}

func DocumentReadError(message string, err error) *Error {
	return NewError(KindDocumentRead, message, err)
}

func TransportError(message string, err error) *Error {
	return NewError(KindTransport, message, err)
}

func ProtocolError(message string, err error) *Error {
	return NewError(KindProtocol, message, err)
}

func ConfigurationError(message string, err error) *Error {
	return NewError(KindConfiguration, message, err)
}

// ServiceError reports a non-success status from the remote endpoint. The raw
// body is kept because quota and auth problems are only explained there.
func ServiceError(statusCode int, body string) *Error {
	return &Error{
		Kind:       KindService,
		Message:    "completion endpoint returned an error",
		StatusCode: statusCode,
		Body:       body,
	}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// IsRetryable reports whether resubmitting the same turn might succeed. It is
// only a hint for the user; nothing retries automatically.
func IsRetryable(err error) bool {
	var de *Error
	if !errors.As(err, &de) {
		return false
	}
	switch de.Kind {
	case KindTransport:
		return true
	case KindService:
		switch de.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}
