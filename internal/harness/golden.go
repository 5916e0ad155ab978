package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/scribe/internal/ir"
)

// Snapshot is the part of a result compared against golden files. It
// leaves out byte counts and SVG text so layout tweaks do not churn every
// golden.
type Snapshot struct {
	Name        string
	Status      Status
	State       string
	ErrorKind   string
	Matches     int
	Element     string
	Location    int64
	Pages       int
	FileWritten bool
}

// NewSnapshot builds the snapshot of result for scenario name.
func NewSnapshot(name string, result *Result) Snapshot {
	return Snapshot{
		Name:        name,
		Status:      result.Status,
		State:       string(result.State),
		ErrorKind:   string(result.ErrorKind),
		Matches:     result.Matches,
		Element:     string(result.Element),
		Location:    int64(result.Location),
		Pages:       result.Pages,
		FileWritten: result.FileWritten,
	}
}

// toCanonicalMap converts s to a map for canonical JSON serialization.
// Empty element, location, pages and error kind are omitted.
func (s Snapshot) toCanonicalMap() map[string]any {
	m := map[string]any{
		"name":         s.Name,
		"status":       string(s.Status),
		"state":        s.State,
		"matches":      s.Matches,
		"file_written": s.FileWritten,
	}
	if s.ErrorKind != "" {
		m["error_kind"] = s.ErrorKind
	}
	if s.Element != "" {
		m["element"] = s.Element
	}
	if s.Location != 0 {
		m["location"] = s.Location
	}
	if s.Pages != 0 {
		m["pages"] = s.Pages
	}
	return m
}

// MarshalGolden returns the canonical JSON of s followed by a newline.
func (s Snapshot) MarshalGolden() ([]byte, error) {
	data, err := ir.MarshalCanonical(s.toCanonicalMap())
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes scenario in a temporary directory and compares
// its snapshot with testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// It returns the result so callers can check expectations too.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario, t.TempDir())
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the snapshot of an existing result with the
// golden file for name.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := NewSnapshot(name, result).MarshalGolden()
	if err != nil {
		return err
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
