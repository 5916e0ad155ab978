// Package store provides SQLite-backed persistence for the layout memo
// cache.
//
// The store holds one table, layout_cache. Each row is a laid-out element
// fragment keyed by the content-addressed hash of its inputs, together
// with the constraint recorded while it was produced. The store never
// decides whether a row is valid; the memo layer replays the constraint
// against the current introspection before trusting a row.
//
// # Determinism
//
//   - Fragments and constraints are stored as canonical JSON (see package
//     ir), so the same entry always serializes to the same bytes.
//   - Rows carry a logical seq from an in-process counter, never a
//     timestamp. Listing and pruning order by seq, then key.
//   - Rows written by a different layout or engine version are ignored on
//     read and replaced on write.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
package store
