// Package failure defines the closed set of error kinds a run can end with
// and the exit status each one maps to.
package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a terminal run error.
type Kind int

const (
	KindUnknown Kind = iota
	KindUsage
	KindParse
	KindIO
	KindConflict
)

// String returns the error kind name.
func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "UsageError"
	case KindParse:
		return "ParseError"
	case KindIO:
		return "IOError"
	case KindConflict:
		return "ConflictError"
	default:
		return "UnknownError"
	}
}

// Error is an error tagged with its Kind and the boundary it crossed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Usage tags err as a UsageError.
func Usage(op string, err error) error { return wrap(KindUsage, op, err) }

// Parse tags err as a ParseError.
func Parse(op string, err error) error { return wrap(KindParse, op, err) }

// IO tags err as an IOError.
func IO(op string, err error) error { return wrap(KindIO, op, err) }

// Conflict tags err as a ConflictError.
func Conflict(op string, err error) error { return wrap(KindConflict, op, err) }

// Usagef builds a UsageError from a format string.
func Usagef(format string, args ...any) error {
	return &Error{Kind: KindUsage, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the Kind of the outermost tagged error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// ExitCode maps err to the process exit status. A nil error is 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch KindOf(err) {
	case KindUsage:
		return 1
	case KindParse:
		return 2
	case KindIO:
		return 3
	case KindConflict:
		return 4
	default:
		return 1
	}
}
