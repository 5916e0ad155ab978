// Package selector defines the selector model used to pick content out of
// a compiled document.
//
// Selector is a sealed interface using the marker method pattern: only the
// types in this package implement it, so consumers can switch on it
// exhaustively.
//
//	switch s := sel.(type) {
//	case Elem:
//	case Label:
//	case Location:
//	case Or:
//	case And:
//	}
//
// Selectors are plain values. Matching is a pure predicate over a single
// content node; the index that runs a selector over a whole document lives
// in package introspect.
//
// IR FORM:
//
// Every selector has a canonical IR form, which is also the shape the
// selector evaluator produces from a CUE expression:
//
//	{elem: "heading", where: {level: 1}}
//	{label: "intro"}
//	{location: 3}
//	{or: [<selector>, ...]}
//	{and: [<selector>, ...]}
//
// The IR form is what gets hashed when a query call is recorded into a
// constraint, so two selectors that print differently but mean the same
// thing share a hash.
package selector
