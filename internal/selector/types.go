package selector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/scribe/internal/content"
	"github.com/roach88/scribe/internal/ir"
)

// Selector picks content nodes.
//
// This is a sealed interface - only types in this package implement it.
type Selector interface {
	// Matches reports whether c is selected. It never looks past c.
	Matches(c content.Content) bool

	// String renders the selector for diagnostics.
	String() string

	selectorNode()
}

// Elem selects nodes of one kind whose fields equal every entry of Where.
//
// A missing field never matches. An empty or nil Where matches every node
// of the kind.
type Elem struct {
	Kind  content.Kind
	Where ir.IRObject
}

func (Elem) selectorNode() {}

func (s Elem) Matches(c content.Content) bool {
	if c.Kind() != s.Kind {
		return false
	}
	for _, key := range s.Where.SortedKeys() {
		v, ok := content.Field(c, key)
		if !ok || !ir.Equal(v, s.Where[key]) {
			return false
		}
	}
	return true
}

func (s Elem) String() string {
	if len(s.Where) == 0 {
		return string(s.Kind)
	}
	parts := make([]string, 0, len(s.Where))
	for _, key := range s.Where.SortedKeys() {
		parts = append(parts, fmt.Sprintf("%s: %s", key, formatValue(s.Where[key])))
	}
	return fmt.Sprintf("%s.where(%s)", s.Kind, strings.Join(parts, ", "))
}

// Label selects the node carrying a label.
type Label struct {
	Name string
}

func (Label) selectorNode() {}

func (s Label) Matches(c content.Content) bool {
	return s.Name != "" && c.Label() == s.Name
}

func (s Label) String() string { return "<" + s.Name + ">" }

// Location selects the node at a location.
type Location struct {
	Loc content.Location
}

func (Location) selectorNode() {}

func (s Location) Matches(c content.Content) bool {
	return !s.Loc.IsZero() && c.Location() == s.Loc
}

func (s Location) String() string { return fmt.Sprintf("locate(%d)", s.Loc) }

// Or selects nodes matched by any of its selectors.
type Or struct {
	Selectors []Selector
}

func (Or) selectorNode() {}

func (s Or) Matches(c content.Content) bool {
	for _, sub := range s.Selectors {
		if sub.Matches(c) {
			return true
		}
	}
	return false
}

func (s Or) String() string { return join("or", s.Selectors) }

// And selects nodes matched by all of its selectors. An empty And matches
// everything and is rejected by AsLocatable.
type And struct {
	Selectors []Selector
}

func (And) selectorNode() {}

func (s And) Matches(c content.Content) bool {
	for _, sub := range s.Selectors {
		if !sub.Matches(c) {
			return false
		}
	}
	return true
}

func (s And) String() string { return join("and", s.Selectors) }

func join(op string, sels []Selector) string {
	parts := make([]string, len(sels))
	for i, sub := range sels {
		parts[i] = sub.String()
	}
	return op + "(" + strings.Join(parts, ", ") + ")"
}

func formatValue(v ir.IRValue) string {
	b, err := ir.MarshalCanonical(v)
	if err != nil {
		return ir.TypeName(v)
	}
	return string(b)
}

// Kinds returns the element kinds named anywhere in s, sorted.
func Kinds(s Selector) []content.Kind {
	seen := map[content.Kind]bool{}
	var walk func(Selector)
	walk = func(s Selector) {
		switch s := s.(type) {
		case Elem:
			seen[s.Kind] = true
		case Or:
			for _, sub := range s.Selectors {
				walk(sub)
			}
		case And:
			for _, sub := range s.Selectors {
				walk(sub)
			}
		}
	}
	walk(s)

	out := make([]content.Kind, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
