package engine

import (
	"sync/atomic"

	"github.com/roach88/scribe/internal/content"
)

// Locator hands out strictly increasing locations.
//
// Safe for concurrent use; each call to Next returns a unique value.
type Locator struct {
	last atomic.Int64
}

// NewLocator returns a locator whose first location is 1.
func NewLocator() *Locator {
	return &Locator{}
}

// NewLocatorAt returns a locator whose first location is start+1. Passing
// an introspector's watermark yields locations disjoint from that index.
func NewLocatorAt(start content.Location) *Locator {
	l := &Locator{}
	l.last.Store(int64(start))
	return l
}

// Next returns the next location.
func (l *Locator) Next() content.Location {
	return content.Location(l.last.Add(1))
}

// Current returns the last location handed out without advancing.
func (l *Locator) Current() content.Location {
	return content.Location(l.last.Load())
}
