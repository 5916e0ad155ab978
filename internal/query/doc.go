// Package query runs the query-and-render pipeline.
//
// A run compiles the document, evaluates a selector, queries the compiled
// document's introspector, lays out the first match again in isolation
// and writes its first page as SVG:
//
//	compiling → compiled → selector_evaluated → queried → matched →
//	laid_out → rendered → done
//
// Any failure moves the run to aborted. The isolated layout reads the
// original introspector only through a tracked view, so every memoized
// element layout it reuses is validated against the compiled document's
// state before it is trusted.
package query
