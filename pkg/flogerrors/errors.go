// Package flogerrors supplies the error taxonomy described in spec §7:
// parse errors, argument errors, backend errors, recursion overflow, and
// the logging error re-raised from a backend's error handler.
// Grounded on the teacher repository's pkg/errors.AppError (code +
// component + operation, wrap, severity) but narrowed to the five kinds
// the pipeline actually needs instead of a general-purpose app error type.
package flogerrors

import (
	"errors"
	"fmt"
)

// Kind discriminates the error taxonomy in spec §7.
type Kind string

const (
	KindParse         Kind = "parse_error"
	KindArgument      Kind = "argument_error"
	KindBackend       Kind = "backend_error"
	KindRecursion     Kind = "recursion_overflow"
	KindLoggingError  Kind = "logging_error" // re-raised from handle_error, for tests
)

// Error is the single error type the pipeline raises or forwards. Cause,
// when present, is the backend or parser error being wrapped.
type Error struct {
	Kind      Kind
	Component string
	Operation string
	Message   string
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %s: %v", e.Component, e.Operation, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s: %s", e.Component, e.Operation, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is match any *Error target with the same Kind, ignoring
// the other fields; callers more commonly use IsKind below.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.Kind == e.Kind
}

// New constructs a bare error of the given kind.
func New(kind Kind, component, operation, message string) *Error {
	return &Error{Kind: kind, Component: component, Operation: operation, Message: message}
}

// Wrap constructs an error of the given kind wrapping cause.
func Wrap(kind Kind, component, operation, message string, cause error) *Error {
	return &Error{Kind: kind, Component: component, Operation: operation, Message: message, Cause: cause}
}

// Argument builds the "programming error" kind for bad fluent-API input
// (non-positive every(), negative atMostEvery(), nil metadata key). Per
// spec §7, argument errors bypass normal filtering — except on a forced
// statement, where they are tolerated to keep forced logs emitting; that
// policy lives in pkg/logctx, not here.
func Argument(operation, message string) *Error {
	return New(KindArgument, "logctx", operation, message)
}

// Backend wraps a runtime failure surfaced by the backend's log() call.
func Backend(operation string, cause error) *Error {
	return Wrap(KindBackend, "backend", operation, "backend log call failed", cause)
}

// Format wraps a FormatMessage failure, preserving a KindParse
// classification when cause already carries one (e.g. a *parse.ParseError
// surfaced by a malformed template) instead of collapsing every
// formatting failure into KindBackend. Callers that don't distinguish the
// two still get the right Kind out the other end for metrics/alerting.
func Format(operation string, cause error) *Error {
	if IsKind(cause, KindParse) {
		return Wrap(KindParse, "backend", operation, "template parse failed", cause)
	}
	return Wrap(KindBackend, "backend", operation, "backend log call failed", cause)
}

// Recursion builds the recursion-overflow kind. The pipeline never returns
// this to user code (spec §7: "the statement is dropped ... no exception is
// raised"). The pipeline does not call it either: its recursion-drop path
// writes its safe report line directly.
func Recursion(depth int32) *Error {
	return New(KindRecursion, "logctx", "log", fmt.Sprintf("recursion depth %d exceeded limit", depth))
}

// LoggingError marks an error from handle_error that should propagate
// (spec §7: "a specific 'logging error' kind ... is re-raised for
// testing/debugging").
func LoggingError(operation, message string, cause error) *Error {
	return Wrap(KindLoggingError, "backend", operation, message, cause)
}

// IsKind reports whether err is a *Error of the given kind, unwrapping
// through any wrapper (e.g. *ParseError) that exposes one via Unwrap.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
