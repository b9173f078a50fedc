// Package grapherr holds the error taxonomy shared by the graph core.
//
// Structural operations (adding or removing wires, removing nodes, setting
// constants) report expected failures with a boolean. The kinds below are
// reserved for contract violations and for lookups the caller must handle
// explicitly. Every error returned by the core wraps one of these kinds, so
// callers test with errors.Is.
package grapherr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidNodeType is returned when an unregistered or non-instantiable
	// node type is requested.
	ErrInvalidNodeType = errors.New("invalid node type")
	// ErrUnknownPin is returned by pin lookups that report failure as an
	// error. Structural calls report missing pins with false instead.
	ErrUnknownPin = errors.New("unknown pin")
	// ErrTypeMismatch is returned when two endpoints cannot be wired.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrConfiguration is returned for malformed registrations.
	ErrConfiguration = errors.New("configuration error")
	// ErrConversionFailed wraps a failure raised by a conversion function.
	ErrConversionFailed = errors.New("conversion failed")
	// ErrUnknownNodeType is returned when a stored node reference cannot be
	// resolved through the registry and its remap table.
	ErrUnknownNodeType = errors.New("unknown node type")
)

// Error attaches a message and an optional cause to one of the kinds above.
type Error struct {
	Kind  error
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.Msg != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Msg)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// New builds an Error of the given kind.
func New(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind around cause.
func Wrap(kind error, cause error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Cause: cause}
}
