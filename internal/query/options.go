package query

import (
	"fmt"

	"github.com/roach88/scribe/internal/eval"
)

// DefaultOutput is the output path used when none is given.
const DefaultOutput = "output.svg"

// MatchPolicy decides what happens when a selector matches more than one
// element.
type MatchPolicy string

const (
	// MatchFirst renders the first match in document order.
	MatchFirst MatchPolicy = "first"
	// MatchExactlyOne fails unless exactly one element matches.
	MatchExactlyOne MatchPolicy = "exactly-one"
)

// ParseMatchPolicy parses s; the empty string selects MatchFirst.
func ParseMatchPolicy(s string) (MatchPolicy, error) {
	switch MatchPolicy(s) {
	case "", MatchFirst:
		return MatchFirst, nil
	case MatchExactlyOne:
		return MatchExactlyOne, nil
	default:
		return "", fmt.Errorf("unknown match policy %q (want %q or %q)", s, MatchFirst, MatchExactlyOne)
	}
}

// EmptyPolicy decides what happens when a selector matches nothing.
type EmptyPolicy string

const (
	// EmptyFail fails the run.
	EmptyFail EmptyPolicy = "fail"
	// EmptySkip ends the run successfully without writing anything.
	EmptySkip EmptyPolicy = "skip"
)

// ParseEmptyPolicy parses s; the empty string selects EmptyFail.
func ParseEmptyPolicy(s string) (EmptyPolicy, error) {
	switch EmptyPolicy(s) {
	case "", EmptyFail:
		return EmptyFail, nil
	case EmptySkip:
		return EmptySkip, nil
	default:
		return "", fmt.Errorf("unknown empty policy %q (want %q or %q)", s, EmptyFail, EmptySkip)
	}
}

// Options configures one run.
type Options struct {
	// Selector is the selector expression.
	Selector string

	// Output is the file to write. Defaults to DefaultOutput.
	Output string

	Match   MatchPolicy
	OnEmpty EmptyPolicy

	// Scope is the selector evaluation scope. Defaults to eval.DefaultScope.
	Scope eval.Scope
}

func (o Options) withDefaults() Options {
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if o.Match == "" {
		o.Match = MatchFirst
	}
	if o.OnEmpty == "" {
		o.OnEmpty = EmptyFail
	}
	if o.Scope == nil {
		o.Scope = eval.DefaultScope()
	}
	return o
}
