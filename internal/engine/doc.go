// Package engine holds the context threaded through every layout call.
//
// An Engine bundles exactly five things:
//
//   - World: read-only access to source and files, shared by everyone.
//   - Route: the nesting path of the current call, bounded in depth.
//   - Tracer: the diagnostic sink for warnings and errors.
//   - Locator: hands out fresh locations for located elements.
//   - Introspector: read access to the cross-reference index, usually a
//     tracked view whose constraint records every call.
//
// Nothing else is reachable from layout code. That keeps layout a pure
// function of (engine, content, styles): given the same world, the same
// introspection answers and the same locator start, it produces the same
// frames.
//
// CONCURRENCY:
//
// An Engine belongs to one layout call chain. Locator and Tracer are safe
// for concurrent use, but nothing in this repository lays out in parallel.
package engine
