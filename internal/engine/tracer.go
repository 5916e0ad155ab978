package engine

import (
	"fmt"
	"sync"
)

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is one message produced while compiling or laying out.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`

	// Pos is a source position ("file:line:col") when one is known.
	Pos string `json:"pos,omitempty"`

	// Hints suggest a fix.
	Hints []string `json:"hints,omitempty"`
}

func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s", d.Severity, d.Message)
	if d.Pos != "" {
		s = d.Pos + ": " + s
	}
	return s
}

// Tracer collects diagnostics. Safe for concurrent use.
type Tracer struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// NewTracer returns an empty tracer.
func NewTracer() *Tracer {
	return &Tracer{}
}

// Warn records a warning.
func (t *Tracer) Warn(format string, args ...any) {
	t.Add(Diagnostic{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)})
}

// Error records an error diagnostic. Recording an error does not stop
// layout; callers decide whether to fail based on HasErrors.
func (t *Tracer) Error(format string, args ...any) {
	t.Add(Diagnostic{Severity: SeverityError, Message: fmt.Sprintf(format, args...)})
}

// Add records d.
func (t *Tracer) Add(d Diagnostic) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.diags = append(t.diags, d)
}

// Diagnostics returns a copy of everything recorded, in order.
func (t *Tracer) Diagnostics() []Diagnostic {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Diagnostic, len(t.diags))
	copy(out, t.diags)
	return out
}

// Warnings returns the recorded warnings.
func (t *Tracer) Warnings() []Diagnostic { return t.filter(SeverityWarning) }

// Errors returns the recorded errors.
func (t *Tracer) Errors() []Diagnostic { return t.filter(SeverityError) }

// HasErrors reports whether any error was recorded.
func (t *Tracer) HasErrors() bool { return len(t.Errors()) > 0 }

func (t *Tracer) filter(s Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range t.Diagnostics() {
		if d.Severity == s {
			out = append(out, d)
		}
	}
	return out
}
