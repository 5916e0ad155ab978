package content

import (
	"fmt"

	"github.com/roach88/scribe/internal/ir"
	"github.com/roach88/scribe/internal/style"
)

// ToIR converts a node to its canonical IR form: its fields plus "kind",
// and "label"/"location" when set.
func ToIR(c Content) ir.IRObject {
	obj := c.Fields().Clone()
	obj["kind"] = ir.IRString(c.Kind())
	if c.Label() != "" {
		obj["label"] = ir.IRString(c.Label())
	}
	if !c.Location().IsZero() {
		obj["location"] = ir.IRInt(c.Location())
	}
	return obj
}

// Hash returns the content-addressed identity of c, including its label
// and location.
func Hash(c Content) string {
	return ir.MustHash(ir.DomainContent, ToIR(c))
}

// FromIR rebuilds a node from its IR form. It is the inverse of ToIR and
// is used when reading cached frames back from storage.
func FromIR(obj ir.IRObject) (Content, error) {
	r := fieldReader{obj: obj}
	kind := Kind(r.str("kind"))

	var c Content
	switch kind {
	case KindHeading:
		c = &Heading{Level: r.int("level"), Body: r.str("body")}
	case KindParagraph:
		c = &Paragraph{Body: r.str("body")}
	case KindFigure:
		f := &Figure{
			Caption: r.str("caption"),
			Image:   r.str("image"),
			Height:  r.int("height"),
		}
		body, err := r.children("body")
		if err != nil {
			return nil, err
		}
		f.Body = body
		if set, ok := obj["set"].(ir.IRObject); ok {
			styles, err := style.FromIR(set)
			if err != nil {
				return nil, err
			}
			f.Set = styles
		}
		c = f
	case KindList:
		l := &List{}
		items, _ := obj["items"].(ir.IRArray)
		for _, item := range items {
			s, ok := item.(ir.IRString)
			if !ok {
				return nil, fmt.Errorf("list item: expected string, found %s", ir.TypeName(item))
			}
			l.Items = append(l.Items, string(s))
		}
		c = l
	case KindOutline:
		c = &Outline{Title: r.str("title")}
	case KindRef:
		c = &Ref{Target: r.str("target")}
	case KindMetadata:
		v, _ := obj["value"].(ir.IRObject)
		c = &Metadata{Value: v}
	case KindSequence:
		children, err := r.children("children")
		if err != nil {
			return nil, err
		}
		c = &Sequence{Children: children}
	default:
		return nil, fmt.Errorf("unknown content kind %q", kind)
	}
	if r.err != nil {
		return nil, fmt.Errorf("%s: %w", kind, r.err)
	}

	out := c.node()
	out.label = r.optStr("label")
	if loc, ok := obj["location"].(ir.IRInt); ok {
		out.location = Location(loc)
	}
	return c, nil
}

// fieldReader extracts typed fields and remembers the first type error.
type fieldReader struct {
	obj ir.IRObject
	err error
}

func (r *fieldReader) str(key string) string {
	v, ok := r.obj[key]
	if !ok {
		return ""
	}
	s, ok := v.(ir.IRString)
	if !ok && r.err == nil {
		r.err = fmt.Errorf("field %q: expected string, found %s", key, ir.TypeName(v))
	}
	return string(s)
}

func (r *fieldReader) optStr(key string) string {
	s, _ := r.obj[key].(ir.IRString)
	return string(s)
}

func (r *fieldReader) int(key string) int64 {
	v, ok := r.obj[key]
	if !ok {
		return 0
	}
	n, ok := v.(ir.IRInt)
	if !ok && r.err == nil {
		r.err = fmt.Errorf("field %q: expected int, found %s", key, ir.TypeName(v))
	}
	return int64(n)
}

func (r *fieldReader) children(key string) ([]Content, error) {
	arr, _ := r.obj[key].(ir.IRArray)
	var out []Content
	for i, v := range arr {
		obj, ok := v.(ir.IRObject)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: expected object, found %s", key, i, ir.TypeName(v))
		}
		child, err := FromIR(obj)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		out = append(out, child)
	}
	return out, nil
}
