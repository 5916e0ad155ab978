package engine

import (
	"github.com/roach88/scribe/internal/introspect"
	"github.com/roach88/scribe/internal/world"
)

// Engine is the layout context.
type Engine struct {
	World        world.World
	Route        Route
	Tracer       *Tracer
	Locator      *Locator
	Introspector introspect.Introspection
}

// New returns an engine over w and i with an empty route, a fresh tracer
// and a locator starting at zero.
func New(w world.World, i introspect.Introspection) *Engine {
	return &Engine{
		World:        w,
		Route:        Route{},
		Tracer:       NewTracer(),
		Locator:      NewLocator(),
		Introspector: i,
	}
}

// Enter returns a copy of e one level deeper on the route, for nested
// layout. The copy shares the tracer, locator and introspector.
func (e *Engine) Enter(what string) (*Engine, error) {
	route, err := e.Route.Enter(what)
	if err != nil {
		return nil, err
	}
	inner := *e
	inner.Route = route
	return &inner, nil
}

// WithIntrospector returns a copy of e reading through i.
func (e *Engine) WithIntrospector(i introspect.Introspection) *Engine {
	inner := *e
	inner.Introspector = i
	return &inner
}
