package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue/token"

	"github.com/roach88/scribe/internal/compiler"
	"github.com/roach88/scribe/internal/query"
	"github.com/roach88/scribe/internal/world"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeConfig      = "E004" // Invalid configuration
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeCompile     = "E006" // Document failed to compile
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeCache       = "E008" // Layout cache could not be opened

	// Query errors
	ErrCodeEval          = "E101" // Selector failed to evaluate
	ErrCodeQueryEmpty    = "E102" // Selector matched nothing
	ErrCodeCountMismatch = "E103" // More than one match in exactly-one mode
	ErrCodeLayout        = "E104" // Element cannot be laid out alone
	ErrCodeRenderEmpty   = "E105" // Layout produced no pages
)

// LoadError represents an error that occurred while opening a document.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// OpenDocument checks that dir is a directory holding CUE files and
// returns a world rooted there.
func OpenDocument(dir string) (*world.SystemWorld, int, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, 0, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("document directory not found: %s", dir)}
	}
	if err != nil {
		return nil, 0, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing document directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, 0, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, 0, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, 0, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	w, err := world.NewSystem(dir)
	if err != nil {
		return nil, 0, &LoadError{Code: ErrCodeNotFound, Message: err.Error()}
	}
	return w, len(cueFiles), nil
}

// FindCUEFiles returns the .cue files directly in dir. A document is a
// single CUE package, so subdirectories are not searched.
func FindCUEFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".cue" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// MapKindToErrorCode maps a query error kind to an error code.
func MapKindToErrorCode(kind query.ErrorKind) string {
	switch kind {
	case query.KindCompile:
		return ErrCodeCompile
	case query.KindEval:
		return ErrCodeEval
	case query.KindQueryEmpty:
		return ErrCodeQueryEmpty
	case query.KindCountMismatch:
		return ErrCodeCountMismatch
	case query.KindLayout:
		return ErrCodeLayout
	case query.KindRenderEmpty:
		return ErrCodeRenderEmpty
	case query.KindIO:
		return ErrCodeWriteFailed
	default:
		return ErrCodeGeneric
	}
}

// describeError converts an error into its CLI form.
func describeError(err error) CLIError {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return CLIError{Code: loadErr.Code, Message: loadErr.Message}
	}
	var qe *query.Error
	if errors.As(err, &qe) {
		return CLIError{
			Code:        MapKindToErrorCode(qe.Kind),
			Kind:        string(qe.Kind),
			Message:     qe.Error(),
			Diagnostics: qe.Diagnostics,
			Details:     map[string]any{"state": qe.State, "count": qe.Count},
		}
	}
	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		return CLIError{
			Code:        ErrCodeCompile,
			Kind:        string(query.KindCompile),
			Message:     ce.Error(),
			Diagnostics: ce.Diagnostics,
		}
	}
	return CLIError{Code: ErrCodeGeneric, Message: err.Error()}
}
