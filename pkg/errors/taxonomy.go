// Package errors defines the closed error-kind taxonomy shared by the
// campaign operations and the zap preparation chain. Callers branch on
// Kind, never on message text.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure into one of the fixed categories every
// operation result can carry.
type Kind string

const (
	// Campaign operation failures.
	KindNotFound     Kind = "not_found"     // no campaign exists for the key
	KindInvalidState Kind = "invalid_state" // operation illegal for current status
	KindEmptyResult  Kind = "empty_result"  // selection produced nothing
	KindValidation   Kind = "validation"    // malformed input to create/update

	// Zap preparation failures.
	KindInvalidIdentity  Kind = "invalid_identity"
	KindNoPaymentAddress Kind = "no_payment_address"
	KindInvalidEndpoint  Kind = "invalid_endpoint"
	KindTimeout          Kind = "timeout"
	KindNoInvoice        Kind = "no_invoice"

	// Everything else.
	KindInternal Kind = "internal"
)

// Error is a kinded error carrying a sanitized, user-visible message.
// The wrapped cause is kept for logs but never shown to callers.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is lets errors.Is match two kinded errors by Kind alone.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// New creates a kinded error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and sanitized message to an underlying cause.
// A nil cause yields nil.
func Wrap(err error, kind Kind, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: err}
}

// KindOf extracts the kind from any error in the chain, defaulting to
// KindInternal for plain errors.
func KindOf(err error) Kind {
	var kerr *Error
	if errors.As(err, &kerr) {
		return kerr.Kind
	}
	return KindInternal
}

// IsKind reports whether any error in the chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
