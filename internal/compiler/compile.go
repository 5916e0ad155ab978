// Package compiler compiles a CUE document source into a laid-out
// document.
//
// Compilation decodes the source into a content tree, locates every
// locatable element once, and then lays the tree out repeatedly. Each pass
// reads the previous pass's introspector through a tracked view; the loop
// stops as soon as everything a pass asked of the index is answered the
// same way by the index it produced.
package compiler

import (
	"context"
	"log/slog"

	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/scribe/internal/engine"
	"github.com/roach88/scribe/internal/introspect"
	"github.com/roach88/scribe/internal/layout"
	"github.com/roach88/scribe/internal/model"
	"github.com/roach88/scribe/internal/style"
	"github.com/roach88/scribe/internal/world"
)

// DefaultMaxPasses bounds the fixpoint loop.
const DefaultMaxPasses = 5

// Compiler compiles documents.
type Compiler struct {
	layouter  *layout.Layouter
	maxPasses int
	logger    *slog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLayouter sets the layouter, typically one carrying a memo cache.
func WithLayouter(l *layout.Layouter) Option {
	return func(c *Compiler) { c.layouter = l }
}

// WithMaxPasses sets the pass limit. Values below 1 are ignored.
func WithMaxPasses(n int) Option {
	return func(c *Compiler) {
		if n >= 1 {
			c.maxPasses = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) { c.logger = logger }
}

// New returns a Compiler.
func New(opts ...Option) *Compiler {
	c := &Compiler{maxPasses: DefaultMaxPasses, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	if c.layouter == nil {
		c.layouter = layout.New(layout.WithLogger(c.logger))
	}
	return c
}

// Compile compiles the document in w with default settings.
func Compile(w world.World, t *engine.Tracer) (*model.Document, error) {
	return New().Compile(w, t)
}

// Compile compiles the document in w. Diagnostics of the final pass are
// copied into t.
func (c *Compiler) Compile(w world.World, t *engine.Tracer) (*model.Document, error) {
	return c.CompileContext(context.Background(), w, t)
}

// CompileContext is Compile with cancellation checked between passes.
func (c *Compiler) CompileContext(ctx context.Context, w world.World, t *engine.Tracer) (*model.Document, error) {
	cctx := cuecontext.New()
	v, err := w.Source(cctx)
	if err != nil {
		return nil, formatCUEError("source", err)
	}
	src, err := Decode(cctx, v)
	if err != nil {
		return nil, err
	}

	locator := engine.NewLocator()
	body := Locate(src.Body, locator)
	styles := style.NewChain(src.Styles)

	prev := introspect.Empty()
	var (
		doc       *model.Document
		tracer    *engine.Tracer
		converged bool
		pass      int
	)
	for pass = 1; pass <= c.maxPasses; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		constraint := introspect.NewConstraint()
		tracer = engine.NewTracer()
		e := &engine.Engine{
			World:        w,
			Route:        engine.Route{},
			Tracer:       tracer,
			Locator:      engine.NewLocatorAt(locator.Current()),
			Introspector: prev.Track(constraint),
		}
		doc, err = c.layouter.RootContext(ctx, e, body, styles)
		if err != nil {
			return nil, &CompileError{Field: "layout", Message: err.Error(), Err: err}
		}

		c.logger.Debug("compile pass",
			"pass", pass,
			"pages", len(doc.Pages),
			"elements", doc.Introspector.Len(),
			"queries", constraint.Len())

		if constraint.Validate(doc.Introspector) {
			converged = true
			break
		}
		prev = doc.Introspector
	}

	if !converged {
		tracer.Warn("layout did not converge within %d passes", c.maxPasses)
		pass = c.maxPasses
	}
	if t != nil {
		for _, d := range tracer.Diagnostics() {
			t.Add(d)
		}
	}

	if tracer.HasErrors() {
		errs := tracer.Errors()
		return nil, &CompileError{
			Field:       "layout",
			Message:     errs[0].Message,
			Diagnostics: errs,
		}
	}

	c.logger.Debug("compile complete", "passes", pass, "pages", len(doc.Pages))
	return doc, nil
}
