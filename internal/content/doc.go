// Package content defines the content nodes of a scribe document.
//
// Content is a sealed interface: only the element types in this package
// implement it, which lets layout and selectors switch exhaustively over
// element kinds. Nodes are immutable once constructed; WithLabel and
// WithLocation return modified copies.
//
// A node's Location is assigned by the layout engine's locator the first
// time the node is laid out inside a document flow. Nodes handed out by the
// introspector carry the location they were given during the compile, so a
// later isolated re-layout sees the same identity.
package content
