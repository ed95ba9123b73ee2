package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error so callers can decide on retries and HTTP mapping
// without inspecting upstream provider details.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalid
	KindNotFound
	KindTransientUpstream
	KindPermanentUpstream
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNotFound:
		return "not_found"
	case KindTransientUpstream:
		return "transient_upstream"
	case KindPermanentUpstream:
		return "permanent_upstream"
	default:
		return "internal"
	}
}

// Error is the structured error carried across component boundaries.
// Message is safe to show to API clients; Err keeps the underlying cause
// for logs only.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

func Wrap(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// KindOf reports the kind of err, following the wrap chain.
// Unclassified errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsTransient(err error) bool {
	return KindOf(err) == KindTransientUpstream
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// MessageOf returns the client-safe message, or a generic fallback for
// unclassified errors so implementation detail never leaks.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
