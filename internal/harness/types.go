package harness

import (
	"github.com/roach88/scribe/internal/content"
	"github.com/roach88/scribe/internal/query"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expectation held.
	Pass bool `json:"pass"`

	Status    Status          `json:"status"`
	State     query.State     `json:"state"`
	ErrorKind query.ErrorKind `json:"error_kind,omitempty"`
	Message   string          `json:"message,omitempty"`

	Matches  int              `json:"matches"`
	Element  content.Kind     `json:"element,omitempty"`
	Location content.Location `json:"location,omitempty"`
	Pages    int              `json:"pages"`

	// Output holds the written file, if any.
	Output      []byte `json:"-"`
	FileWritten bool   `json:"file_written"`

	// Report is the runner's report.
	Report *query.Report `json:"-"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError records an expectation failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
