package selector

import (
	"fmt"

	"github.com/roach88/scribe/internal/content"
	"github.com/roach88/scribe/internal/ir"
)

// ToIR converts s to its canonical IR form.
func ToIR(s Selector) ir.IRObject {
	switch s := s.(type) {
	case Elem:
		obj := ir.IRObject{"elem": ir.IRString(s.Kind)}
		if len(s.Where) > 0 {
			obj["where"] = s.Where.Clone()
		}
		return obj
	case Label:
		return ir.IRObject{"label": ir.IRString(s.Name)}
	case Location:
		return ir.IRObject{"location": ir.IRInt(s.Loc)}
	case Or:
		return ir.IRObject{"or": listToIR(s.Selectors)}
	case And:
		return ir.IRObject{"and": listToIR(s.Selectors)}
	default:
		panic(fmt.Sprintf("selector: unknown type %T", s))
	}
}

func listToIR(sels []Selector) ir.IRArray {
	arr := make(ir.IRArray, len(sels))
	for i, sub := range sels {
		arr[i] = ToIR(sub)
	}
	return arr
}

// Hash returns the content-addressed identity of s.
func Hash(s Selector) string {
	return ir.MustHash(ir.DomainSelector, ToIR(s))
}

// FromIR decodes a selector from its IR form. Exactly one of the keys
// elem, label, location, or, and must be present; "where" is only allowed
// next to "elem".
func FromIR(v ir.IRValue) (Selector, error) {
	obj, ok := v.(ir.IRObject)
	if !ok {
		return nil, fmt.Errorf("expected selector, found %s", ir.TypeName(v))
	}

	var shape []string
	for _, key := range obj.SortedKeys() {
		switch key {
		case "elem", "label", "location", "or", "and":
			shape = append(shape, key)
		case "where":
			if _, ok := obj["elem"]; !ok {
				return nil, fmt.Errorf("where requires an element selector")
			}
		default:
			return nil, fmt.Errorf("unexpected selector field %q", key)
		}
	}
	if len(shape) != 1 {
		return nil, fmt.Errorf("expected selector, found object with fields %v", obj.SortedKeys())
	}

	switch shape[0] {
	case "elem":
		kind, ok := obj["elem"].(ir.IRString)
		if !ok {
			return nil, fmt.Errorf("elem: expected string, found %s", ir.TypeName(obj["elem"]))
		}
		if !content.Kind(kind).Valid() {
			return nil, fmt.Errorf("unknown element %q", string(kind))
		}
		s := Elem{Kind: content.Kind(kind)}
		if raw, ok := obj["where"]; ok {
			where, ok := raw.(ir.IRObject)
			if !ok {
				return nil, fmt.Errorf("where: expected struct, found %s", ir.TypeName(raw))
			}
			s.Where = where.Clone()
		}
		return s, nil
	case "label":
		name, ok := obj["label"].(ir.IRString)
		if !ok || name == "" {
			return nil, fmt.Errorf("label: expected non-empty string")
		}
		return Label{Name: string(name)}, nil
	case "location":
		loc, ok := obj["location"].(ir.IRInt)
		if !ok || loc <= 0 {
			return nil, fmt.Errorf("location: expected positive int")
		}
		return Location{Loc: content.Location(loc)}, nil
	case "or":
		subs, err := listFromIR("or", obj["or"])
		if err != nil {
			return nil, err
		}
		return Or{Selectors: subs}, nil
	default:
		subs, err := listFromIR("and", obj["and"])
		if err != nil {
			return nil, err
		}
		return And{Selectors: subs}, nil
	}
}

func listFromIR(op string, v ir.IRValue) ([]Selector, error) {
	arr, ok := v.(ir.IRArray)
	if !ok {
		return nil, fmt.Errorf("%s: expected list, found %s", op, ir.TypeName(v))
	}
	out := make([]Selector, len(arr))
	for i, elem := range arr {
		sub, err := FromIR(elem)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", op, i, err)
		}
		out[i] = sub
	}
	return out, nil
}
