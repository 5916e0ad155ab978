// Package style implements the cascading style chain used by layout.
//
// A document's `set` block becomes a Styles list; layout walks a Chain of
// Styles from the innermost (element-local) to the outermost (document)
// level and falls back to Defaults. Chains are immutable values: chaining
// never modifies an existing chain, so the chain captured by a compile can
// be handed to a later, isolated layout call and produce identical output.
package style

import (
	"fmt"
	"strings"

	"github.com/roach88/scribe/internal/ir"
)

// Property names a style property. Names are dotted paths matching the
// nesting of the `set` block in document sources ("page.width").
type Property string

const (
	PageWidth        Property = "page.width"
	PageHeight       Property = "page.height"
	PageMargin       Property = "page.margin"
	PageFill         Property = "page.fill"
	TextSize         Property = "text.size"
	TextFill         Property = "text.fill"
	TextLeading      Property = "text.leading"
	ParSpacing       Property = "par.spacing"
	HeadingNumbering Property = "heading.numbering"
	FigureNumbering  Property = "figure.numbering"
)

// Defaults holds the value of every known property. Lengths are in points.
var Defaults = map[Property]ir.IRValue{
	PageWidth:        ir.IRInt(595),
	PageHeight:       ir.IRInt(842),
	PageMargin:       ir.IRInt(56),
	PageFill:         ir.IRString("#ffffff"),
	TextSize:         ir.IRInt(11),
	TextFill:         ir.IRString("#000000"),
	TextLeading:      ir.IRInt(4),
	ParSpacing:       ir.IRInt(8),
	HeadingNumbering: ir.IRBool(false),
	FigureNumbering:  ir.IRBool(true),
}

// Style is a single property assignment.
type Style struct {
	Property Property
	Value    ir.IRValue
}

// Styles is an ordered list of assignments; later entries win.
type Styles []Style

// Set returns a copy of s with the assignment appended.
func (s Styles) Set(p Property, v ir.IRValue) Styles {
	out := make(Styles, len(s), len(s)+1)
	copy(out, s)
	return append(out, Style{Property: p, Value: v})
}

// Get returns the last assignment of p in s.
func (s Styles) Get(p Property) (ir.IRValue, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].Property == p {
			return s[i].Value, true
		}
	}
	return nil, false
}

// ToIR converts s back into the nested `set` shape.
func (s Styles) ToIR() ir.IRObject {
	out := ir.IRObject{}
	for _, st := range s {
		group, name, _ := strings.Cut(string(st.Property), ".")
		sub, ok := out[group].(ir.IRObject)
		if !ok {
			sub = ir.IRObject{}
			out[group] = sub
		}
		sub[name] = st.Value
	}
	return out
}

// FromIR parses a nested `set` object ({page: {width: 400}}) into Styles.
// Keys are applied in canonical order so the result does not depend on map
// iteration. Unknown properties and mistyped values are errors.
func FromIR(obj ir.IRObject) (Styles, error) {
	var out Styles
	for _, group := range obj.SortedKeys() {
		sub, ok := obj[group].(ir.IRObject)
		if !ok {
			return nil, fmt.Errorf("set.%s: expected object, found %s", group, ir.TypeName(obj[group]))
		}
		for _, name := range sub.SortedKeys() {
			p := Property(group + "." + name)
			def, known := Defaults[p]
			if !known {
				return nil, fmt.Errorf("set.%s: unknown style property", p)
			}
			v := sub[name]
			if ir.TypeName(v) != ir.TypeName(def) {
				return nil, fmt.Errorf("set.%s: expected %s, found %s", p, ir.TypeName(def), ir.TypeName(v))
			}
			if n, isInt := v.(ir.IRInt); isInt && n < 0 {
				return nil, fmt.Errorf("set.%s: must not be negative", p)
			}
			out = append(out, Style{Property: p, Value: v})
		}
	}
	return out, nil
}
