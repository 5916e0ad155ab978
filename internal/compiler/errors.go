package compiler

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/scribe/internal/engine"
)

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos

	// Diagnostics holds every error reported by the final layout pass.
	Diagnostics []engine.Diagnostic

	Err error
}

func (e *CompileError) Error() string {
	msg := e.Message
	if n := len(e.Diagnostics); n > 1 {
		msg = fmt.Sprintf("%s (and %d more)", msg, n-1)
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, msg)
	}
	return fmt.Sprintf("%s: %s", e.Field, msg)
}

func (e *CompileError) Unwrap() error { return e.Err }

// formatCUEError converts a CUE error into a CompileError carrying the
// first error's position and one diagnostic per CUE error.
func formatCUEError(field string, err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &CompileError{Field: field, Message: err.Error(), Err: err}
	}

	ce := &CompileError{Field: field, Message: errs[0].Error(), Err: err}
	if positions := errors.Positions(errs[0]); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	for _, e := range errs {
		d := engine.Diagnostic{Severity: engine.SeverityError, Message: e.Error()}
		if positions := errors.Positions(e); len(positions) > 0 {
			d.Pos = positions[0].String()
		}
		ce.Diagnostics = append(ce.Diagnostics, d)
	}
	return ce
}
