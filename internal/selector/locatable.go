package selector

import (
	"errors"
	"fmt"

	"github.com/roach88/scribe/internal/content"
)

// Locatable is a selector that can be run against the introspector: every
// element kind it names is recorded with a location during layout.
//
// The zero value is not usable; obtain one through AsLocatable.
type Locatable struct {
	sel Selector
}

// AsLocatable checks that s can be queried and wraps it.
//
// All problems are collected; the returned error lists them in traversal
// order.
func AsLocatable(s Selector) (Locatable, error) {
	v := &checker{}
	v.check(s)
	if len(v.problems) > 0 {
		return Locatable{}, errors.Join(v.problems...)
	}
	return Locatable{sel: s}, nil
}

// MustLocatable is like AsLocatable but panics on error.
// Use only with selectors built in code.
func MustLocatable(s Selector) Locatable {
	l, err := AsLocatable(s)
	if err != nil {
		panic(err)
	}
	return l
}

// Selector returns the wrapped selector.
func (l Locatable) Selector() Selector { return l.sel }

// Matches reports whether c is selected.
func (l Locatable) Matches(c content.Content) bool {
	return l.sel != nil && l.sel.Matches(c)
}

func (l Locatable) String() string {
	if l.sel == nil {
		return "<invalid>"
	}
	return l.sel.String()
}

// Hash returns the identity of the wrapped selector.
func (l Locatable) Hash() string { return Hash(l.sel) }

// checker accumulates problems during traversal.
type checker struct {
	problems []error
}

func (v *checker) addf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Errorf(format, args...))
}

func (v *checker) check(s Selector) {
	switch s := s.(type) {
	case nil:
		v.addf("nil selector")
	case Elem:
		if !s.Kind.Valid() {
			v.addf("unknown element %q", s.Kind)
		} else if !s.Kind.Locatable() {
			v.addf("%s is not locatable", s.Kind)
		}
	case Label:
		if s.Name == "" {
			v.addf("empty label")
		}
	case Location:
		if s.Loc.IsZero() {
			v.addf("zero location")
		}
	case Or:
		if len(s.Selectors) == 0 {
			v.addf("empty or")
		}
		for _, sub := range s.Selectors {
			v.check(sub)
		}
	case And:
		if len(s.Selectors) == 0 {
			v.addf("empty and")
		}
		for _, sub := range s.Selectors {
			v.check(sub)
		}
	default:
		v.addf("unknown selector type %T", s)
	}
}
