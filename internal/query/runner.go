package query

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/roach88/scribe/internal/compiler"
	"github.com/roach88/scribe/internal/content"
	"github.com/roach88/scribe/internal/engine"
	"github.com/roach88/scribe/internal/eval"
	"github.com/roach88/scribe/internal/frame"
	"github.com/roach88/scribe/internal/fsutil"
	"github.com/roach88/scribe/internal/introspect"
	"github.com/roach88/scribe/internal/layout"
	"github.com/roach88/scribe/internal/model"
	"github.com/roach88/scribe/internal/render"
	"github.com/roach88/scribe/internal/selector"
	"github.com/roach88/scribe/internal/style"
	"github.com/roach88/scribe/internal/world"
)

// State is a stage of a run.
type State string

const (
	StateCompiling         State = "compiling"
	StateCompiled          State = "compiled"
	StateSelectorEvaluated State = "selector_evaluated"
	StateQueried           State = "queried"
	StateMatched           State = "matched"
	StateLaidOut           State = "laid_out"
	StateRendered          State = "rendered"
	StateDone              State = "done"
	StateAborted           State = "aborted"
)

// Compiler compiles a whole document.
type Compiler interface {
	CompileContext(ctx context.Context, w world.World, t *engine.Tracer) (*model.Document, error)
}

// Layouter lays out one element as a standalone document.
type Layouter interface {
	RootContext(ctx context.Context, e *engine.Engine, c content.Content, styles style.Chain) (*model.Document, error)
}

// Renderer encodes one page.
type Renderer interface {
	Render(f frame.Frame) []byte
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(f frame.Frame) []byte

func (fn RendererFunc) Render(f frame.Frame) []byte { return fn(f) }

// Writer persists the rendered output.
type Writer interface {
	WriteFile(path string, data []byte, perm fs.FileMode) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(path string, data []byte, perm fs.FileMode) error

func (fn WriterFunc) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return fn(path, data, perm)
}

// Report describes a run, successful or not.
type Report struct {
	RunID    string `json:"run_id"`
	State    State  `json:"state"`
	Selector string `json:"selector,omitempty"`

	// Matches is the number of elements the selector matched.
	Matches int `json:"matches"`

	// Element is the kind of the rendered element; Location is its
	// location in the compiled document.
	Element  content.Kind     `json:"element,omitempty"`
	Location content.Location `json:"location,omitempty"`

	// Pages is the number of pages the isolated layout produced.
	Pages int `json:"pages"`

	// Queries is the number of distinct introspector calls the isolated
	// layout depended on.
	Queries int `json:"queries"`

	Output  string `json:"output,omitempty"`
	Bytes   int    `json:"bytes"`
	Skipped bool   `json:"skipped,omitempty"`

	Diagnostics []engine.Diagnostic `json:"diagnostics,omitempty"`
}

// Runner drives the pipeline. The zero value is not usable; use
// NewRunner.
type Runner struct {
	compiler Compiler
	layouter Layouter
	renderer Renderer
	writer   Writer
	runIDs   engine.RunIDGenerator
	logger   *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithCompiler replaces the document compiler.
func WithCompiler(c Compiler) Option { return func(r *Runner) { r.compiler = c } }

// WithLayouter replaces the isolated layouter.
func WithLayouter(l Layouter) Option { return func(r *Runner) { r.layouter = l } }

// WithRenderer replaces the page renderer.
func WithRenderer(rn Renderer) Option { return func(r *Runner) { r.renderer = rn } }

// WithWriter replaces the output writer.
func WithWriter(w Writer) Option { return func(r *Runner) { r.writer = w } }

// WithRunIDs sets the run ID generator.
func WithRunIDs(g engine.RunIDGenerator) Option { return func(r *Runner) { r.runIDs = g } }

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option { return func(r *Runner) { r.logger = logger } }

// NewRunner returns a Runner using the production compiler, layouter, SVG
// renderer and atomic file writer unless replaced by opts.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		renderer: RendererFunc(render.SVG),
		writer:   WriterFunc(fsutil.WriteFileAtomic),
		runIDs:   engine.UUIDv7Generator{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.layouter == nil {
		r.layouter = layout.New(layout.WithLogger(r.logger))
	}
	if r.compiler == nil {
		r.compiler = compiler.New(compiler.WithLogger(r.logger))
	}
	return r
}

// Retrieve returns every element of doc matching sel, in document order.
func Retrieve(doc *model.Document, sel selector.Locatable) []content.Content {
	return doc.Introspector.Query(sel)
}

// run is the state of one Run call.
type run struct {
	report *Report
	logger *slog.Logger
}

func (s *run) enter(state State) {
	s.logger.Debug("state transition", "from", s.report.State, "to", state)
	s.report.State = state
}

func (s *run) fail(err *Error) (*Report, error) {
	err.State = s.report.State
	s.logger.Debug("run aborted", "state", err.State, "kind", err.Kind, "error", err.Message)
	s.report.State = StateAborted
	if len(err.Diagnostics) > 0 {
		s.report.Diagnostics = append(s.report.Diagnostics, err.Diagnostics...)
	}
	return s.report, err
}

func (s *run) canceled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		s.logger.Debug("run canceled", "state", s.report.State, "error", err)
		s.report.State = StateAborted
		return err
	}
	return nil
}

// Run executes the pipeline for the document in w. The returned report is
// never nil; on failure it is in StateAborted and the error is a *Error
// or the context's error. Nothing is written unless the run reaches
// StateDone without skipping.
func (r *Runner) Run(ctx context.Context, w world.World, opts Options) (*Report, error) {
	opts = opts.withDefaults()
	report := &Report{
		RunID:    r.runIDs.Generate(),
		State:    StateCompiling,
		Selector: opts.Selector,
	}
	s := &run{report: report, logger: r.logger.With("run_id", report.RunID)}
	s.logger.Debug("run started", "selector", opts.Selector, "output", opts.Output)

	// Compiling → Compiled
	w.Reset()
	tracer := engine.NewTracer()
	doc, err := r.compiler.CompileContext(ctx, w, tracer)
	if err != nil {
		if cerr := s.canceled(ctx); cerr != nil {
			return report, cerr
		}
		qe := &Error{Kind: KindCompile, Message: err.Error(), Err: err}
		var ce *compiler.CompileError
		if errors.As(err, &ce) && len(ce.Diagnostics) > 0 {
			qe.Diagnostics = ce.Diagnostics
		} else {
			qe.Diagnostics = tracer.Errors()
		}
		return s.fail(qe)
	}
	report.Diagnostics = append(report.Diagnostics, tracer.Warnings()...)
	s.enter(StateCompiled)
	if err := s.canceled(ctx); err != nil {
		return report, err
	}

	// Compiled → SelectorEvaluated
	sel, err := eval.EvalSelector(opts.Selector, opts.Scope)
	if err != nil {
		return s.fail(&Error{Kind: KindEval, Message: err.Error(), Err: err})
	}
	s.enter(StateSelectorEvaluated)

	// SelectorEvaluated → Queried → Matched
	matches := Retrieve(doc, sel)
	report.Matches = len(matches)
	s.enter(StateQueried)
	s.logger.Debug("selector matched", "selector", sel.String(), "count", len(matches))

	switch {
	case len(matches) == 0 && opts.OnEmpty == EmptySkip:
		report.Skipped = true
		s.enter(StateDone)
		return report, nil
	case len(matches) == 0:
		msg := "selector matched no elements"
		if opts.Match == MatchExactlyOne {
			msg = "expected exactly one element, found 0"
		}
		return s.fail(&Error{Kind: KindQueryEmpty, Message: msg})
	case len(matches) > 1 && opts.Match == MatchExactlyOne:
		return s.fail(&Error{
			Kind:    KindCountMismatch,
			Message: fmt.Sprintf("expected exactly one element, found %d", len(matches)),
			Count:   len(matches),
		})
	}
	target := matches[0]
	report.Element = target.Kind()
	report.Location = target.Location()
	s.enter(StateMatched)
	if err := s.canceled(ctx); err != nil {
		return report, err
	}

	// Matched → LaidOut
	constraint := introspect.NewConstraint()
	e := &engine.Engine{
		World:        w,
		Route:        engine.Route{},
		Tracer:       engine.NewTracer(),
		Locator:      engine.NewLocatorAt(doc.Introspector.Watermark()),
		Introspector: doc.Introspector.Track(constraint),
	}
	out, err := r.layouter.RootContext(ctx, e, target, doc.Styles)
	if err != nil {
		if cerr := s.canceled(ctx); cerr != nil {
			return report, cerr
		}
		return s.fail(&Error{Kind: KindLayout, Message: err.Error(), Err: err})
	}
	report.Diagnostics = append(report.Diagnostics, e.Tracer.Diagnostics()...)
	report.Pages = len(out.Pages)
	report.Queries = constraint.Len()
	s.enter(StateLaidOut)

	// LaidOut → Rendered
	if len(out.Pages) == 0 {
		return s.fail(&Error{Kind: KindRenderEmpty, Message: "layout produced no pages"})
	}
	data := r.renderer.Render(out.Pages[0].Frame)
	s.enter(StateRendered)
	if err := s.canceled(ctx); err != nil {
		return report, err
	}

	// Rendered → Done
	if err := r.writer.WriteFile(opts.Output, data, 0o644); err != nil {
		return s.fail(&Error{Kind: KindIO, Message: err.Error(), Err: err})
	}
	report.Output = opts.Output
	report.Bytes = len(data)
	s.enter(StateDone)
	s.logger.Debug("run complete", "output", opts.Output, "bytes", len(data), "pages", report.Pages)
	return report, nil
}
