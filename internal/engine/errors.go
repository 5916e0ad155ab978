package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/scribe/internal/content"
)

// LayoutError represents an error detected while laying out content.
//
// Layout errors include:
//   - Route too deep: nested layout exceeded MaxRouteDepth
//   - Not standalone: the element has no visual form of its own
//   - Missing file: a figure image could not be read from the world
//   - Unresolved reference: a ref names a label that does not exist
type LayoutError struct {
	// Code identifies the error category.
	Code LayoutErrorCode

	// Message is a human-readable description.
	Message string

	// Kind is the element being laid out, if any.
	Kind content.Kind

	// Location is the element's location, if it has one.
	Location content.Location

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause.
	Err error
}

// LayoutErrorCode categorizes layout errors.
type LayoutErrorCode string

const (
	ErrCodeRouteTooDeep   LayoutErrorCode = "ROUTE_TOO_DEEP"
	ErrCodeNotStandalone  LayoutErrorCode = "NOT_STANDALONE"
	ErrCodeMissingFile    LayoutErrorCode = "MISSING_FILE"
	ErrCodeUnresolvedRef  LayoutErrorCode = "UNRESOLVED_REF"
	ErrCodeInvalidElement LayoutErrorCode = "INVALID_ELEMENT"
)

// Error implements the error interface.
func (e *LayoutError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Kind != "" && !e.Location.IsZero() {
		msg += fmt.Sprintf(" (%s at %d)", e.Kind, e.Location)
	} else if e.Kind != "" {
		msg += fmt.Sprintf(" (%s)", e.Kind)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LayoutError) Unwrap() error { return e.Err }

func hasCode(err error, code LayoutErrorCode) bool {
	var le *LayoutError
	if errors.As(err, &le) {
		return le.Code == code
	}
	return false
}

// IsRouteError reports whether err is a ROUTE_TOO_DEEP error.
// Uses errors.As to handle wrapped errors.
func IsRouteError(err error) bool { return hasCode(err, ErrCodeRouteTooDeep) }

// IsNotStandaloneError reports whether err is a NOT_STANDALONE error.
func IsNotStandaloneError(err error) bool { return hasCode(err, ErrCodeNotStandalone) }

// IsMissingFileError reports whether err is a MISSING_FILE error.
func IsMissingFileError(err error) bool { return hasCode(err, ErrCodeMissingFile) }

// IsUnresolvedRefError reports whether err is an UNRESOLVED_REF error.
func IsUnresolvedRefError(err error) bool { return hasCode(err, ErrCodeUnresolvedRef) }

// NewRouteError creates a LayoutError for a route that cannot go deeper.
func NewRouteError(r Route, what string) *LayoutError {
	return &LayoutError{
		Code:    ErrCodeRouteTooDeep,
		Message: fmt.Sprintf("maximum layout depth exceeded (%d) entering %s", MaxRouteDepth, what),
		Details: map[string]string{
			"depth": fmt.Sprintf("%d", r.Depth()),
			"route": r.String(),
		},
	}
}

// NewNotStandaloneError creates a LayoutError for an element that cannot
// be laid out on its own.
func NewNotStandaloneError(c content.Content) *LayoutError {
	return &LayoutError{
		Code:     ErrCodeNotStandalone,
		Message:  fmt.Sprintf("%s has no visual representation", c.Kind()),
		Kind:     c.Kind(),
		Location: c.Location(),
	}
}

// NewMissingFileError creates a LayoutError for a file the world could not
// provide.
func NewMissingFileError(c content.Content, path string, err error) *LayoutError {
	return &LayoutError{
		Code:     ErrCodeMissingFile,
		Message:  fmt.Sprintf("file not found: %s", path),
		Kind:     c.Kind(),
		Location: c.Location(),
		Details:  map[string]string{"path": path},
		Err:      err,
	}
}

// NewUnresolvedRefError creates a LayoutError for a reference whose label
// could not be resolved.
func NewUnresolvedRefError(c content.Content, target string, err error) *LayoutError {
	return &LayoutError{
		Code:     ErrCodeUnresolvedRef,
		Message:  fmt.Sprintf("cannot reference <%s>", target),
		Kind:     c.Kind(),
		Location: c.Location(),
		Details:  map[string]string{"target": target},
		Err:      err,
	}
}
