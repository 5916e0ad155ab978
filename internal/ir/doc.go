// Package ir provides the canonical value representation used for content
// identity in scribe.
//
// Content nodes, selectors, style chains and introspection calls are all
// reduced to IR values before they are hashed. Two values that describe the
// same thing always produce the same bytes, which is what lets the memo
// cache and the introspection constraints compare results across passes
// and across runs.
//
// Key design constraints:
//   - NO float types anywhere; geometry is expressed in integer units
//   - Object keys are ordered by UTF-16 code units (RFC 8785)
//   - Strings are NFC normalized at the serialization boundary
//   - This package imports nothing internal
package ir
