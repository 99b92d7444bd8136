// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. This enables better error categorization, logging,
// and user experience by providing context-aware error information.
//
// The package supports wrapping underlying errors while maintaining error kind information,
// making it easier to handle different types of failures appropriately.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// ConnectionFailed indicates the remote plugin was unreachable or the
	// connection attempt exceeded the timeout.
	ConnectionFailed Kind = "connection_failed"
	// NotConnected indicates a command was issued without an active connection.
	NotConnected Kind = "not_connected"
	// ProtocolFailure indicates the response bytes never became valid JSON
	// before the read timed out.
	ProtocolFailure Kind = "protocol_failure"
	// NoResponse indicates the remote closed the socket with zero bytes sent.
	NoResponse Kind = "no_response"
	// RenderFailed indicates the image-generation server rejected or failed a request.
	RenderFailed Kind = "render_failed"
	// GateFailed indicates the quality gate could not evaluate an image.
	GateFailed Kind = "gate_failed"
	// ConfigInvalid indicates the configuration file could not be loaded or parsed.
	ConfigInvalid Kind = "config_invalid"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying error to errors.Is/As chains.
func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the kind of err when it is (or wraps) an *E, or "" otherwise.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }
