// Package introspect provides the cross-reference index of a laid-out
// document and the tracked view used to validate re-layout against it.
//
// An Introspector is built once from a document's pages and never changes.
// Layout code does not hold an *Introspector directly; it holds an
// Introspection, usually a *Tracked that forwards every call to the index
// and records the call with a hash of its result into a Constraint.
//
// A Constraint answers one question: would the same calls, issued against
// another introspection, return the same results? The compiler uses it to
// detect a fixpoint between passes, and the layout memo cache uses it to
// decide whether a cached fragment is still valid.
//
//	c := introspect.NewConstraint()
//	view := doc.Introspector.Track(c)
//	// ... layout reads through view ...
//	c.Validate(next) // true if every recorded answer still holds
package introspect
