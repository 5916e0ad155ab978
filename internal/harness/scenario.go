package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/scribe/internal/content"
	"github.com/roach88/scribe/internal/query"
)

// Scenario is one end-to-end query run and its expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// RunID is the fixed run ID. Defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`

	// Document is the CUE source of the document.
	Document string `yaml:"document"`

	// Files are extra files placed next to the document, keyed by
	// slash-separated relative path.
	Files map[string]string `yaml:"files,omitempty"`

	// Selector is the selector expression to evaluate.
	Selector string `yaml:"selector"`

	Options RunOptions `yaml:"options,omitempty"`

	Expect Expectation `yaml:"expect"`
}

// RunOptions are the query options of a scenario. Output is relative to
// the scenario's working directory.
type RunOptions struct {
	Output  string `yaml:"output,omitempty"`
	Match   string `yaml:"match,omitempty"`
	OnEmpty string `yaml:"on_empty,omitempty"`
}

// Expectation is the expected outcome of a scenario. Unset fields are not
// checked.
type Expectation struct {
	Status      Status          `yaml:"status"`
	State       query.State     `yaml:"state,omitempty"`
	ErrorKind   query.ErrorKind `yaml:"error_kind,omitempty"`
	Matches     *int            `yaml:"matches,omitempty"`
	Element     content.Kind    `yaml:"element,omitempty"`
	FileWritten *bool           `yaml:"file_written,omitempty"`
	Contains    []string        `yaml:"contains,omitempty"`
}

// Status is the coarse outcome of a run.
type Status string

const (
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
	StatusAborted Status = "aborted"
)

var errorKinds = map[query.ErrorKind]bool{
	query.KindCompile:       true,
	query.KindEval:          true,
	query.KindQueryEmpty:    true,
	query.KindCountMismatch: true,
	query.KindLayout:        true,
	query.KindRenderEmpty:   true,
	query.KindIO:            true,
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos surface as errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		if prev, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("%s: duplicate scenario name %q (also in %s)", filepath.Base(p), s.Name, prev)
		}
		seen[s.Name] = filepath.Base(p)
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// queryOptions converts the scenario options for a run in dir.
func (s *Scenario) queryOptions(dir string) (query.Options, error) {
	match, err := query.ParseMatchPolicy(s.Options.Match)
	if err != nil {
		return query.Options{}, err
	}
	onEmpty, err := query.ParseEmptyPolicy(s.Options.OnEmpty)
	if err != nil {
		return query.Options{}, err
	}
	output := s.Options.Output
	if output == "" {
		output = query.DefaultOutput
	}
	return query.Options{
		Selector: s.Selector,
		Output:   filepath.Join(dir, filepath.FromSlash(output)),
		Match:    match,
		OnEmpty:  onEmpty,
	}, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Document == "" {
		return fmt.Errorf("document is required")
	}
	if s.Selector == "" {
		return fmt.Errorf("selector is required")
	}

	for name := range s.Files {
		if err := validateFileName(name); err != nil {
			return fmt.Errorf("files[%q]: %w", name, err)
		}
	}
	if s.Options.Output != "" {
		if err := validateFileName(s.Options.Output); err != nil {
			return fmt.Errorf("options.output: %w", err)
		}
	}
	if _, err := query.ParseMatchPolicy(s.Options.Match); err != nil {
		return fmt.Errorf("options.match: %w", err)
	}
	if _, err := query.ParseEmptyPolicy(s.Options.OnEmpty); err != nil {
		return fmt.Errorf("options.on_empty: %w", err)
	}

	return validateExpectation(&s.Expect)
}

func validateExpectation(e *Expectation) error {
	switch e.Status {
	case StatusDone, StatusSkipped, StatusAborted:
	case "":
		return fmt.Errorf("expect.status is required")
	default:
		return fmt.Errorf("expect.status: unknown status %q", e.Status)
	}

	if e.ErrorKind != "" {
		if e.Status != StatusAborted {
			return fmt.Errorf("expect.error_kind requires status %q", StatusAborted)
		}
		if !errorKinds[e.ErrorKind] {
			return fmt.Errorf("expect.error_kind: unknown kind %q", e.ErrorKind)
		}
	}
	if e.Matches != nil && *e.Matches < 0 {
		return fmt.Errorf("expect.matches must be >= 0")
	}
	for i, c := range e.Contains {
		if c == "" {
			return fmt.Errorf("expect.contains[%d] is empty", i)
		}
	}
	return nil
}

// validateFileName rejects absolute paths and paths escaping the
// scenario directory.
func validateFileName(name string) error {
	if name == "" {
		return fmt.Errorf("empty path")
	}
	if filepath.IsAbs(name) || filepath.IsAbs(filepath.FromSlash(name)) {
		return fmt.Errorf("path must be relative")
	}
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(name)))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("path escapes the scenario directory")
	}
	return nil
}
