package introspect

import (
	"errors"
	"fmt"

	"github.com/roach88/scribe/internal/content"
	"github.com/roach88/scribe/internal/frame"
	"github.com/roach88/scribe/internal/selector"
)

// ErrLabelNotFound is returned by QueryLabel when no element carries the
// label.
var ErrLabelNotFound = errors.New("label does not exist in the document")

// ErrLabelAmbiguous is returned by QueryLabel when several elements carry
// the label.
var ErrLabelAmbiguous = errors.New("label occurs multiple times in the document")

// Introspection is read access to a cross-reference index.
type Introspection interface {
	// Query returns every element matching sel, in document order.
	Query(sel selector.Locatable) []content.Content

	// QueryFirst returns the first element matching sel.
	QueryFirst(sel selector.Locatable) (content.Content, bool)

	// QueryLabel returns the single element carrying label.
	QueryLabel(label string) (content.Content, error)

	// Page returns the 1-based page an element was placed on.
	Page(loc content.Location) (int, bool)
}

type entry struct {
	content content.Content
	page    int
}

// Introspector indexes the located elements of a laid-out document.
type Introspector struct {
	elems     []entry
	byLoc     map[content.Location]int
	byLabel   map[string][]int
	pages     int
	watermark content.Location
}

// New builds an introspector from pages in order. Elements are indexed in
// the order their tags appear, which is document order.
func New(pages []frame.Frame) *Introspector {
	in := &Introspector{
		byLoc:   make(map[content.Location]int),
		byLabel: make(map[string][]int),
		pages:   len(pages),
	}
	for i := range pages {
		for _, tag := range pages[i].Tags() {
			c := tag.Content
			loc := c.Location()
			if loc.IsZero() {
				continue
			}
			if _, dup := in.byLoc[loc]; dup {
				continue
			}
			idx := len(in.elems)
			in.elems = append(in.elems, entry{content: c, page: i + 1})
			in.byLoc[loc] = idx
			if label := c.Label(); label != "" {
				in.byLabel[label] = append(in.byLabel[label], idx)
			}
			if loc > in.watermark {
				in.watermark = loc
			}
		}
	}
	return in
}

// Empty returns an introspector with no elements, used for the first
// compile pass.
func Empty() *Introspector {
	return New(nil)
}

func (in *Introspector) Query(sel selector.Locatable) []content.Content {
	var out []content.Content
	for _, e := range in.elems {
		if sel.Matches(e.content) {
			out = append(out, e.content)
		}
	}
	return out
}

func (in *Introspector) QueryFirst(sel selector.Locatable) (content.Content, bool) {
	for _, e := range in.elems {
		if sel.Matches(e.content) {
			return e.content, true
		}
	}
	return nil, false
}

func (in *Introspector) QueryLabel(label string) (content.Content, error) {
	idx := in.byLabel[label]
	switch len(idx) {
	case 0:
		return nil, fmt.Errorf("<%s>: %w", label, ErrLabelNotFound)
	case 1:
		return in.elems[idx[0]].content, nil
	default:
		return nil, fmt.Errorf("<%s>: %w", label, ErrLabelAmbiguous)
	}
}

func (in *Introspector) Page(loc content.Location) (int, bool) {
	idx, ok := in.byLoc[loc]
	if !ok {
		return 0, false
	}
	return in.elems[idx].page, true
}

// Len returns the number of indexed elements.
func (in *Introspector) Len() int { return len(in.elems) }

// Pages returns the number of pages the index was built from.
func (in *Introspector) Pages() int { return in.pages }

// Labels returns the distinct labels in document order of first use.
func (in *Introspector) Labels() []string {
	var out []string
	seen := map[string]bool{}
	for _, e := range in.elems {
		if l := e.content.Label(); l != "" && !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

// Watermark returns the highest location in the index. Locations handed
// out above it cannot collide with indexed elements.
func (in *Introspector) Watermark() content.Location { return in.watermark }

// Track returns a view of in that records every call into c.
func (in *Introspector) Track(c *Constraint) *Tracked {
	return Track(in, c)
}
