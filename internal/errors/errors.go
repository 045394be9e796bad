// Package errors provides enhanced error handling for the VOLTA modeling core.
package errors

import (
	"fmt"
	"runtime"
	"strings"
)

// Kind classifies an error into one of the failure domains of the modeling core.
// Configuration kinds indicate a programming mistake in the calling code; data
// kinds indicate malformed input data.
type Kind int

const (
	// KindUnknown is the zero value for errors without an assigned kind.
	KindUnknown Kind = iota
	// KindConfig marks configuration errors (invalid construction arguments,
	// abstract tags where concrete ones are required).
	KindConfig
	// KindKeyNotFound marks lookups of keys or labels that were never registered.
	KindKeyNotFound
	// KindDuplicateKey marks re-registration of an existing container key.
	KindDuplicateKey
	// KindAlreadyInitialized marks repeated one-time initialization calls.
	KindAlreadyInitialized
	// KindUnknownKeyType marks decoding of an unregistered element type name.
	KindUnknownKeyType
	// KindDuplicateAxisLabel marks repeated labels on a container axis.
	KindDuplicateAxisLabel
	// KindDataShape marks length or dimension mismatches between related inputs.
	KindDataShape
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindKeyNotFound:
		return "key_not_found"
	case KindDuplicateKey:
		return "duplicate_key"
	case KindAlreadyInitialized:
		return "already_initialized"
	case KindUnknownKeyType:
		return "unknown_key_type"
	case KindDuplicateAxisLabel:
		return "duplicate_axis_label"
	case KindDataShape:
		return "data_shape"
	default:
		return "unknown"
	}
}

// Error represents an error with context and stack trace.
type Error struct {
	// The underlying error that was returned
	Err error
	// A human-readable message describing the error
	Message string
	// The operation that was being performed when the error occurred
	Operation string
	// The component or package where the error occurred
	Component string
	// The failure classification
	Kind Kind
	// The stack trace
	Stack []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var builder strings.Builder

	if e.Message != "" {
		builder.WriteString(e.Message)
	}

	if e.Operation != "" {
		if builder.Len() > 0 {
			builder.WriteString(": ")
		}
		builder.WriteString("operation=")
		builder.WriteString(e.Operation)
	}

	if e.Component != "" {
		if builder.Len() > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString("component=")
		builder.WriteString(e.Component)
	}

	if e.Err != nil {
		if builder.Len() > 0 {
			builder.WriteString(": ")
		}
		builder.WriteString(e.Err.Error())
	}

	return builder.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithOperation adds an operation to the error.
func (e *Error) WithOperation(op string) *Error {
	e.Operation = op
	return e
}

// WithComponent adds a component to the error.
func (e *Error) WithComponent(component string) *Error {
	e.Component = component
	return e
}

// StackTrace returns the stack trace as a slice of strings.
func (e *Error) StackTrace() []string {
	return e.Stack
}

// New creates a new error of the given kind with a message.
func New(kind Kind, msg string) *Error {
	return &Error{
		Kind:    kind,
		Message: msg,
		Stack:   getStackTrace(),
	}
}

// Newf creates a new error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Stack:   getStackTrace(),
	}
}

// Wrap wraps an error with additional context. The kind of a wrapped *Error is
// preserved unless it was unknown.
func Wrap(err error, kind Kind, msg string) *Error {
	if err == nil {
		return nil
	}

	e, ok := err.(*Error)
	if !ok {
		e = &Error{
			Err:   err,
			Stack: getStackTrace(),
		}
	}

	if e.Kind == KindUnknown {
		e.Kind = kind
	}
	if msg != "" {
		e.Message = msg
	}

	return e
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, kind Kind, format string, args ...interface{}) *Error {
	return Wrap(err, kind, fmt.Sprintf(format, args...))
}

// IsKind reports whether err (or any error it wraps) carries the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// KindOf returns the kind of err, or KindUnknown if err carries none.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind != KindUnknown {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return KindUnknown
		}
		err = u.Unwrap()
	}
	return KindUnknown
}

// getStackTrace returns the current stack trace as a slice of strings.
func getStackTrace() []string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:]) // Skip runtime.Callers, getStackTrace, and the constructor
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	stack := make([]string, 0, n)

	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") && !strings.Contains(frame.File, "internal/errors") {
			stack = append(stack, fmt.Sprintf("%s\n\t%s:%d", frame.Function, frame.File, frame.Line))
		}
		if !more {
			break
		}
	}

	return stack
}
