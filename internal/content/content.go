package content

import (
	"github.com/roach88/scribe/internal/ir"
	"github.com/roach88/scribe/internal/style"
)

// Location identifies a located node within one compile. Zero means the
// node has not been located.
type Location int64

// IsZero reports whether the location is unset.
func (l Location) IsZero() bool { return l == 0 }

// Kind names an element type. Kind strings are the identifiers used by
// document sources and selector expressions.
type Kind string

const (
	KindHeading   Kind = "heading"
	KindParagraph Kind = "par"
	KindFigure    Kind = "figure"
	KindList      Kind = "list"
	KindOutline   Kind = "outline"
	KindRef       Kind = "ref"
	KindMetadata  Kind = "metadata"
	KindSequence  Kind = "sequence"
)

// Kinds lists every element kind in declaration order.
var Kinds = []Kind{
	KindHeading, KindParagraph, KindFigure, KindList,
	KindOutline, KindRef, KindMetadata, KindSequence,
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Locatable reports whether nodes of this kind receive a location and are
// recorded by the introspector. Only locatable kinds can be queried.
func (k Kind) Locatable() bool {
	switch k {
	case KindHeading, KindFigure, KindOutline, KindRef, KindMetadata:
		return true
	default:
		return false
	}
}

// Content is one element of a document tree.
type Content interface {
	Kind() Kind
	Label() string
	Location() Location

	// Fields returns the kind-specific fields, excluding kind, label and
	// location. Selector `where` clauses match against these.
	Fields() ir.IRObject

	node() *base
}

type base struct {
	label    string
	location Location
}

func (b *base) node() *base        { return b }
func (b *base) Label() string      { return b.label }
func (b *base) Location() Location { return b.location }

// Heading is a section heading.
type Heading struct {
	base
	Level int64
	Body  string
}

func (*Heading) Kind() Kind { return KindHeading }

func (h *Heading) Fields() ir.IRObject {
	return ir.IRObject{"level": ir.IRInt(h.Level), "body": ir.IRString(h.Body)}
}

// Paragraph is a run of flowing text.
type Paragraph struct {
	base
	Body string
}

func (*Paragraph) Kind() Kind { return KindParagraph }

func (p *Paragraph) Fields() ir.IRObject {
	return ir.IRObject{"body": ir.IRString(p.Body)}
}

// Figure is a captioned block with an optional image, a nested body, and
// local style overrides.
type Figure struct {
	base
	Caption string
	Image   string // path resolved through the world; empty for none
	Height  int64  // reserved image height in points
	Body    []Content
	Set     style.Styles
}

func (*Figure) Kind() Kind { return KindFigure }

func (f *Figure) Fields() ir.IRObject {
	body := make(ir.IRArray, len(f.Body))
	for i, c := range f.Body {
		body[i] = ToIR(c)
	}
	return ir.IRObject{
		"caption": ir.IRString(f.Caption),
		"image":   ir.IRString(f.Image),
		"height":  ir.IRInt(f.Height),
		"body":    body,
		"set":     f.Set.ToIR(),
	}
}

// List is a bulleted list of plain-text items.
type List struct {
	base
	Items []string
}

func (*List) Kind() Kind { return KindList }

func (l *List) Fields() ir.IRObject {
	items := make(ir.IRArray, len(l.Items))
	for i, item := range l.Items {
		items[i] = ir.IRString(item)
	}
	return ir.IRObject{"items": items}
}

// Outline is a table of contents built from the document's headings.
type Outline struct {
	base
	Title string
}

func (*Outline) Kind() Kind { return KindOutline }

func (o *Outline) Fields() ir.IRObject {
	return ir.IRObject{"title": ir.IRString(o.Title)}
}

// Ref is a cross-reference to a labelled heading or figure.
type Ref struct {
	base
	Target string
}

func (*Ref) Kind() Kind { return KindRef }

func (r *Ref) Fields() ir.IRObject {
	return ir.IRObject{"target": ir.IRString(r.Target)}
}

// Metadata is an invisible, queryable value.
type Metadata struct {
	base
	Value ir.IRObject
}

func (*Metadata) Kind() Kind { return KindMetadata }

func (m *Metadata) Fields() ir.IRObject {
	v := m.Value
	if v == nil {
		v = ir.IRObject{}
	}
	return ir.IRObject{"value": v}
}

// Sequence is an ordered run of block content; the document body.
type Sequence struct {
	base
	Children []Content
}

func (*Sequence) Kind() Kind { return KindSequence }

func (s *Sequence) Fields() ir.IRObject {
	children := make(ir.IRArray, len(s.Children))
	for i, c := range s.Children {
		children[i] = ToIR(c)
	}
	return ir.IRObject{"children": children}
}

// Field looks up a single field by name. "label" resolves to the node's
// label so selectors can filter on it like any other field.
func Field(c Content, name string) (ir.IRValue, bool) {
	if name == "label" {
		return ir.IRString(c.Label()), true
	}
	v, ok := c.Fields()[name]
	return v, ok
}

// WithLabel returns a copy of c carrying label.
func WithLabel(c Content, label string) Content {
	out := shallowCopy(c)
	out.node().label = label
	return out
}

// WithLocation returns a copy of c located at loc.
func WithLocation(c Content, loc Location) Content {
	out := shallowCopy(c)
	out.node().location = loc
	return out
}

func shallowCopy(c Content) Content {
	switch n := c.(type) {
	case *Heading:
		cp := *n
		return &cp
	case *Paragraph:
		cp := *n
		return &cp
	case *Figure:
		cp := *n
		return &cp
	case *List:
		cp := *n
		return &cp
	case *Outline:
		cp := *n
		return &cp
	case *Ref:
		cp := *n
		return &cp
	case *Metadata:
		cp := *n
		return &cp
	case *Sequence:
		cp := *n
		return &cp
	default:
		panic("content: unknown node type")
	}
}
