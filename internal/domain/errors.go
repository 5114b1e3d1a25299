package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a component-boundary failure. Every failure crossing
// a component boundary is converted to an *Error carrying one of these kinds;
// none escape as panics.
type ErrorKind string

const (
	// KindGenerationFailed covers generation-service failures: network,
	// non-2xx status, empty or malformed body, and safety rejections.
	KindGenerationFailed ErrorKind = "generation_failed"

	// KindAuthExchangeFailed covers failures of the authorization-code
	// exchange or the follow-up profile lookup.
	KindAuthExchangeFailed ErrorKind = "auth_exchange_failed"

	// KindPublishRejected means the provider returned a non-success status
	// for a publish attempt.
	KindPublishRejected ErrorKind = "publish_rejected"

	// KindPreconditionNotMet means an operation was refused before any
	// network call, e.g. publishing to a live platform without a session.
	KindPreconditionNotMet ErrorKind = "precondition_not_met"
)

// Error is a typed failure produced at a component boundary.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err (which may be nil) with a kind and message.
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the ErrorKind from err, or "" if err carries none.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// ErrAssistSuperseded is returned when a generation response arrives after a
// newer assist or a manual edit has already claimed the variant. The response
// is discarded and the variant's text is left untouched.
var ErrAssistSuperseded = errors.New("assist response superseded")
