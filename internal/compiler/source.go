package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/scribe/internal/content"
	"github.com/roach88/scribe/internal/engine"
	"github.com/roach88/scribe/internal/ir"
	"github.com/roach88/scribe/internal/style"
)

// Source is a decoded document: its root styles and its body.
type Source struct {
	Styles style.Styles
	Body   *content.Sequence
}

// Decode validates v against the document schema and converts it into a
// content tree. Elements are not yet located.
func Decode(ctx *cue.Context, v cue.Value) (*Source, error) {
	u, err := validate(ctx, v)
	if err != nil {
		return nil, formatCUEError("source", err)
	}

	src := &Source{Body: &content.Sequence{}}
	if set := u.LookupPath(cue.ParsePath("set")); set.Exists() {
		src.Styles, err = decodeSet("set", set)
		if err != nil {
			return nil, err
		}
	}

	src.Body.Children, err = decodeElements("body", u.LookupPath(cue.ParsePath("body")))
	if err != nil {
		return nil, err
	}
	return src, nil
}

func decodeElements(field string, v cue.Value) ([]content.Content, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(field, err)
	}
	var out []content.Content
	for i := 0; iter.Next(); i++ {
		c, err := decodeElement(fmt.Sprintf("%s[%d]", field, i), iter.Value())
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func decodeElement(field string, v cue.Value) (content.Content, error) {
	r := &reader{field: field, v: v}
	var c content.Content
	switch kind := content.Kind(r.str("kind")); kind {
	case content.KindHeading:
		c = &content.Heading{Level: r.int("level"), Body: r.str("body")}
	case content.KindParagraph:
		c = &content.Paragraph{Body: r.str("body")}
	case content.KindList:
		c = &content.List{Items: r.strings("items")}
	case content.KindOutline:
		c = &content.Outline{Title: r.optStr("title")}
	case content.KindRef:
		c = &content.Ref{Target: r.str("target")}
	case content.KindMetadata:
		c = &content.Metadata{Value: r.object("value")}
	case content.KindFigure:
		f := &content.Figure{
			Caption: r.str("caption"),
			Image:   r.optStr("image"),
			Height:  r.optInt("height"),
		}
		if r.err == nil {
			body, err := decodeElements(field+".body", v.LookupPath(cue.ParsePath("body")))
			if err != nil {
				return nil, err
			}
			f.Body = body
		}
		if set := v.LookupPath(cue.ParsePath("set")); r.err == nil && set.Exists() {
			styles, err := decodeSet(field+".set", set)
			if err != nil {
				return nil, err
			}
			f.Set = styles
		}
		c = f
	default:
		if r.err == nil {
			r.fail("kind", fmt.Sprintf("unknown element kind %q", kind))
		}
	}
	if r.err != nil {
		return nil, r.err
	}

	if label := r.optStr("label"); label != "" {
		if !c.Kind().Locatable() {
			return nil, &CompileError{Field: field + ".label", Message: fmt.Sprintf("%s cannot be labelled", c.Kind()), Pos: v.Pos()}
		}
		c = content.WithLabel(c, label)
	}
	return c, r.err
}

func decodeSet(field string, v cue.Value) (style.Styles, error) {
	obj, err := toIR(field, v)
	if err != nil {
		return nil, err
	}
	set, ok := obj.(ir.IRObject)
	if !ok {
		return nil, &CompileError{Field: field, Message: "expected struct", Pos: v.Pos()}
	}
	styles, err := style.FromIR(set)
	if err != nil {
		return nil, &CompileError{Field: field, Message: err.Error(), Pos: v.Pos(), Err: err}
	}
	return styles, nil
}

// toIR converts a concrete CUE value into IR through its JSON form.
// Floats and nulls have no IR form in content and are rejected.
func toIR(field string, v cue.Value) (ir.IRValue, error) {
	data, err := v.MarshalJSON()
	if err != nil {
		return nil, formatCUEError(field, err)
	}
	out, err := ir.UnmarshalIRValue(data)
	if err != nil {
		return nil, &CompileError{Field: field, Message: err.Error(), Pos: v.Pos(), Err: err}
	}
	if path, found := findNull(out, field); found {
		return nil, &CompileError{Field: path, Message: "null is not allowed", Pos: v.Pos()}
	}
	return out, nil
}

func findNull(v ir.IRValue, path string) (string, bool) {
	switch x := v.(type) {
	case ir.IRNull:
		return path, true
	case ir.IRArray:
		for i, e := range x {
			if p, ok := findNull(e, fmt.Sprintf("%s[%d]", path, i)); ok {
				return p, true
			}
		}
	case ir.IRObject:
		for _, k := range x.SortedKeys() {
			if p, ok := findNull(x[k], path+"."+k); ok {
				return p, true
			}
		}
	}
	return "", false
}

// reader extracts fields of one element, keeping the first error.
type reader struct {
	field string
	v     cue.Value
	err   error
}

func (r *reader) fail(name, msg string) {
	if r.err == nil {
		r.err = &CompileError{Field: r.field + "." + name, Message: msg, Pos: r.v.Pos()}
	}
}

func (r *reader) lookup(name string) (cue.Value, bool) {
	fv := r.v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return fv, false
	}
	if d, ok := fv.Default(); ok {
		fv = d
	}
	return fv, true
}

func (r *reader) str(name string) string {
	fv, ok := r.lookup(name)
	if !ok {
		r.fail(name, "missing field")
		return ""
	}
	s, err := fv.String()
	if err != nil && r.err == nil {
		r.err = formatCUEError(r.field+"."+name, err)
	}
	return s
}

func (r *reader) optStr(name string) string {
	if _, ok := r.lookup(name); !ok {
		return ""
	}
	return r.str(name)
}

func (r *reader) int(name string) int64 {
	fv, ok := r.lookup(name)
	if !ok {
		r.fail(name, "missing field")
		return 0
	}
	n, err := fv.Int64()
	if err != nil && r.err == nil {
		r.err = formatCUEError(r.field+"."+name, err)
	}
	return n
}

func (r *reader) optInt(name string) int64 {
	if _, ok := r.lookup(name); !ok {
		return 0
	}
	return r.int(name)
}

func (r *reader) strings(name string) []string {
	fv, ok := r.lookup(name)
	if !ok {
		r.fail(name, "missing field")
		return nil
	}
	var out []string
	if err := fv.Decode(&out); err != nil && r.err == nil {
		r.err = formatCUEError(r.field+"."+name, err)
	}
	return out
}

func (r *reader) object(name string) ir.IRObject {
	fv, ok := r.lookup(name)
	if !ok {
		r.fail(name, "missing field")
		return nil
	}
	v, err := toIR(r.field+"."+name, fv)
	if err != nil {
		if r.err == nil {
			r.err = err
		}
		return nil
	}
	obj, isObj := v.(ir.IRObject)
	if !isObj {
		r.fail(name, "expected struct, found "+ir.TypeName(v))
	}
	return obj
}

// Locate returns a copy of body with every locatable element, including
// those nested in figures, assigned a location from l in document order.
func Locate(body *content.Sequence, l *engine.Locator) *content.Sequence {
	return &content.Sequence{Children: locateAll(body.Children, l)}
}

func locateAll(children []content.Content, l *engine.Locator) []content.Content {
	out := make([]content.Content, len(children))
	for i, c := range children {
		if c.Kind().Locatable() {
			c = content.WithLocation(c, l.Next())
		}
		// c is already a copy here, so its body can be replaced.
		if f, ok := c.(*content.Figure); ok {
			f.Body = locateAll(f.Body, l)
		}
		out[i] = c
	}
	return out
}
