package harness

import (
	"fmt"
	"strings"
)

// AssertionError is an expectation that did not hold.
type AssertionError struct {
	Field    string // Expectation field, e.g. "status"
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("expectation failed: %s\n  Expected: %s\n  Actual: %s", e.Field, e.Expected, e.Actual)
}

// EvaluateExpectations checks result against expect and returns one
// message per failed expectation, in a fixed order.
func EvaluateExpectations(result *Result, expect Expectation) []string {
	var errs []string
	add := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	add(assertEqual("status", string(expect.Status), string(result.Status)))
	if expect.State != "" {
		add(assertEqual("state", string(expect.State), string(result.State)))
	}
	if expect.ErrorKind != "" {
		add(assertEqual("error_kind", string(expect.ErrorKind), string(result.ErrorKind)))
	}
	if expect.Matches != nil {
		add(assertEqual("matches", fmt.Sprint(*expect.Matches), fmt.Sprint(result.Matches)))
	}
	if expect.Element != "" {
		add(assertEqual("element", string(expect.Element), string(result.Element)))
	}
	if expect.FileWritten != nil {
		add(assertEqual("file_written", fmt.Sprint(*expect.FileWritten), fmt.Sprint(result.FileWritten)))
	}
	for _, want := range expect.Contains {
		add(assertContains(result, want))
	}
	return errs
}

func assertEqual(field, expected, actual string) error {
	if expected == actual {
		return nil
	}
	return &AssertionError{Field: field, Expected: quote(expected), Actual: quote(actual)}
}

// assertContains looks for want in the written file, or in the error
// message when nothing was written.
func assertContains(result *Result, want string) error {
	haystack, where := result.Message, "error message"
	if result.FileWritten {
		haystack, where = string(result.Output), "output"
	}
	if strings.Contains(haystack, want) {
		return nil
	}
	return &AssertionError{
		Field:    "contains",
		Expected: fmt.Sprintf("%s containing %q", where, want),
		Actual:   excerpt(haystack),
	}
}

func quote(s string) string {
	if s == "" {
		return "(none)"
	}
	return fmt.Sprintf("%q", s)
}

// excerpt shortens s for failure messages.
func excerpt(s string) string {
	const limit = 120
	if s == "" {
		return "(empty)"
	}
	if len(s) > limit {
		return fmt.Sprintf("%q...", s[:limit])
	}
	return fmt.Sprintf("%q", s)
}
