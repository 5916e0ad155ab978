package style

import (
	"github.com/roach88/scribe/internal/ir"
)

// Chain is a linked cascade of Styles. The zero value resolves every
// property to its default.
type Chain struct {
	head Styles
	tail *Chain
}

// NewChain starts a chain whose outermost level is s.
func NewChain(s Styles) Chain {
	return Chain{head: s}
}

// Chain returns a new chain with local as the innermost level.
// The receiver is not modified.
func (c Chain) Chain(local Styles) Chain {
	if len(local) == 0 {
		return c
	}
	parent := c
	return Chain{head: local, tail: &parent}
}

// Get resolves p, innermost level first.
func (c Chain) Get(p Property) ir.IRValue {
	for link := &c; link != nil; link = link.tail {
		if v, ok := link.head.Get(p); ok {
			return v
		}
	}
	return Defaults[p]
}

// Int resolves an integer property.
func (c Chain) Int(p Property) int64 {
	if v, ok := c.Get(p).(ir.IRInt); ok {
		return int64(v)
	}
	return 0
}

// String resolves a string property.
func (c Chain) String(p Property) string {
	if v, ok := c.Get(p).(ir.IRString); ok {
		return string(v)
	}
	return ""
}

// Bool resolves a boolean property.
func (c Chain) Bool(p Property) bool {
	if v, ok := c.Get(p).(ir.IRBool); ok {
		return bool(v)
	}
	return false
}

// Resolved returns the effective value of every known property, keyed by
// property name. Two chains with equal Resolved values lay out identically.
func (c Chain) Resolved() ir.IRObject {
	out := make(ir.IRObject, len(Defaults))
	for p := range Defaults {
		out[string(p)] = c.Get(p)
	}
	return out
}

// Hash identifies the resolved chain.
func (c Chain) Hash() string {
	return ir.MustHash(ir.DomainStyles, c.Resolved())
}
