package query

import (
	"errors"
	"fmt"

	"github.com/roach88/scribe/internal/engine"
)

// ErrorKind classifies a failed run.
type ErrorKind string

const (
	KindCompile       ErrorKind = "CompileError"
	KindEval          ErrorKind = "EvalError"
	KindQueryEmpty    ErrorKind = "QueryEmptyResult"
	KindCountMismatch ErrorKind = "CountMismatch"
	KindLayout        ErrorKind = "LayoutError"
	KindRenderEmpty   ErrorKind = "RenderEmptyOutput"
	KindIO            ErrorKind = "IOError"
)

// Error is a failed run. State is the last state the run reached before
// failing.
type Error struct {
	Kind    ErrorKind
	State   State
	Message string

	// Count is the number of matches for query errors.
	Count int

	Diagnostics []engine.Diagnostic
	Err         error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a query Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var qe *Error
	return errors.As(err, &qe) && qe.Kind == kind
}

// KindOf returns the kind of a query Error, or "" for other errors.
func KindOf(err error) ErrorKind {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return ""
}
