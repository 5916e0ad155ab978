package layout

import (
	"strconv"
	"strings"

	"github.com/roach88/scribe/internal/content"
	"github.com/roach88/scribe/internal/engine"
	"github.com/roach88/scribe/internal/selector"
)

var (
	headingSelector = selector.MustLocatable(selector.Elem{Kind: content.KindHeading})
	figureSelector  = selector.MustLocatable(selector.Elem{Kind: content.KindFigure})
)

// headingNumbers computes hierarchical numbers ("1", "1.2", "2") for every
// heading the introspector knows, keyed by location.
func headingNumbers(e *engine.Engine) map[content.Location]string {
	out := map[content.Location]string{}
	var counters []int
	for _, c := range e.Introspector.Query(headingSelector) {
		h := c.(*content.Heading)
		level := int(h.Level)
		if level < 1 {
			level = 1
		}
		for len(counters) < level {
			counters = append(counters, 0)
		}
		counters = counters[:level]
		counters[level-1]++

		parts := make([]string, level)
		for i, n := range counters {
			parts[i] = strconv.Itoa(n)
		}
		out[h.Location()] = strings.Join(parts, ".")
	}
	return out
}

// headingNumber returns the number of the heading at loc, or "" while the
// introspector does not know it yet.
func headingNumber(e *engine.Engine, loc content.Location) string {
	return headingNumbers(e)[loc]
}

// figureNumber returns the 1-based position of the figure at loc among all
// figures, or 0 while the introspector does not know it yet.
func figureNumber(e *engine.Engine, loc content.Location) int {
	for i, c := range e.Introspector.Query(figureSelector) {
		if c.Location() == loc {
			return i + 1
		}
	}
	return 0
}
