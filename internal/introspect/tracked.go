package introspect

import (
	"github.com/roach88/scribe/internal/content"
	"github.com/roach88/scribe/internal/selector"
)

// Tracked forwards every call to an underlying introspection and records
// the call into a constraint. Answers are exactly those of the underlying
// introspection.
type Tracked struct {
	inner      Introspection
	constraint *Constraint
}

// Track wraps i so that calls are recorded into c. Tracking a Tracked view
// records into both constraints.
func Track(i Introspection, c *Constraint) *Tracked {
	return &Tracked{inner: i, constraint: c}
}

// Constraint returns the constraint calls are recorded into.
func (t *Tracked) Constraint() *Constraint { return t.constraint }

func (t *Tracked) Query(sel selector.Locatable) []content.Content {
	out := t.inner.Query(sel)
	t.constraint.record(Call{Op: OpQuery, Selector: sel, Result: hashElems(out)})
	return out
}

func (t *Tracked) QueryFirst(sel selector.Locatable) (content.Content, bool) {
	c, ok := t.inner.QueryFirst(sel)
	t.constraint.record(Call{Op: OpQueryFirst, Selector: sel, Result: hashOptional(c, ok)})
	return c, ok
}

func (t *Tracked) QueryLabel(label string) (content.Content, error) {
	c, err := t.inner.QueryLabel(label)
	t.constraint.record(Call{Op: OpQueryLabel, Label: label, Result: hashLabelled(c, err)})
	return c, err
}

func (t *Tracked) Page(loc content.Location) (int, bool) {
	page, ok := t.inner.Page(loc)
	t.constraint.record(Call{Op: OpPage, Loc: loc, Result: hashPage(page, ok)})
	return page, ok
}
