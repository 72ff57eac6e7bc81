// Package coreerrors defines the error-kind taxonomy shared by every
// subsystem of the conversational core (spec §7). It plays the role
// internal/agent/errors.go's ToolError/ToolErrorType pair plays in the
// teacher: tool (and turn-level) failures become tagged values the caller
// can branch on, instead of ad-hoc error strings.
package coreerrors

import "fmt"

// Kind is one of the error taxonomy members from spec §7.
type Kind string

const (
	KindInvalidArgument Kind = "InvalidArgument"
	KindBusy            Kind = "Busy"
	KindNotFound        Kind = "NotFound"
	KindConflict        Kind = "Conflict"
	KindTransient       Kind = "Transient"
	KindTimedOut        Kind = "TimedOut"
	KindSchemaMismatch  Kind = "SchemaMismatch"
	KindConfiguration   Kind = "Configuration"
	KindCancelled       Kind = "Cancelled"
	KindInternal        Kind = "Internal"
)

// Retryable reports whether the core will automatically retry operations
// that fail with this kind (read and idempotent-write tools only; spec
// §4.5/§7).
func (k Kind) Retryable() bool {
	return k == KindTransient
}

// Error is the structured error object surfaced to callers and, inside the
// expert loop, fed back to the model as a tool-role message (spec §7).
type Error struct {
	Kind      Kind   `json:"kind"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
	Cause     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds a structured Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Retryable: kind.Retryable()}
}

// Wrap builds a structured Error of the given kind, preserving cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:      kind,
		Message:   fmt.Sprintf(format, args...),
		Retryable: kind.Retryable(),
		Cause:     cause,
	}
}

// As extracts a *Error from err, if any part of its chain is one.
func As(err error) (*Error, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}

// KindOf returns the Kind of err, defaulting to KindInternal for
// unclassified errors — every unclassified error is logged with stack
// context per spec §7.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}
