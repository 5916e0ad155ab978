package engine

import "strings"

// MaxRouteDepth bounds nested layout. Figures nest their bodies, and a
// body can hold another figure; the bound turns runaway nesting into an
// error instead of a stack overflow.
const MaxRouteDepth = 32

// Route is the path of nested layout calls leading to the current one.
// The zero value is the empty route. Routes are values: Enter never
// modifies the receiver.
type Route struct {
	path []string
}

// Enter returns the route one level deeper.
func (r Route) Enter(what string) (Route, error) {
	if len(r.path) >= MaxRouteDepth {
		return Route{}, NewRouteError(r, what)
	}
	path := make([]string, len(r.path), len(r.path)+1)
	copy(path, r.path)
	return Route{path: append(path, what)}, nil
}

// Depth returns how many levels have been entered.
func (r Route) Depth() int { return len(r.path) }

func (r Route) String() string {
	if len(r.path) == 0 {
		return "<root>"
	}
	return strings.Join(r.path, " > ")
}
