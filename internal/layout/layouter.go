// Package layout turns content into pages of frames.
//
// Layout is a function of the engine, the content and the style chain.
// Everything it learns about the rest of the document comes through
// e.Introspector: heading and figure numbers, outline entries and page
// numbers, and reference targets. When that introspector is tracked, the
// constraint it records is exactly what the output depends on.
package layout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/scribe/internal/content"
	"github.com/roach88/scribe/internal/engine"
	"github.com/roach88/scribe/internal/frame"
	"github.com/roach88/scribe/internal/introspect"
	"github.com/roach88/scribe/internal/memo"
	"github.com/roach88/scribe/internal/model"
	"github.com/roach88/scribe/internal/style"
)

// Layouter lays out content, optionally memoizing element layouts.
type Layouter struct {
	cache  *memo.Cache
	logger *slog.Logger
}

// Option configures a Layouter.
type Option func(*Layouter)

// WithCache memoizes element layouts in c.
func WithCache(c *memo.Cache) Option {
	return func(l *Layouter) { l.cache = c }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Layouter) { l.logger = logger }
}

// New returns a Layouter.
func New(opts ...Option) *Layouter {
	l := &Layouter{logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Root lays out c as a standalone document with exactly the given styles.
func (l *Layouter) Root(e *engine.Engine, c content.Content, styles style.Chain) (*model.Document, error) {
	return l.RootContext(context.Background(), e, c, styles)
}

// RootContext is Root with a context for the persistent cache tier.
//
// A Sequence is laid out as a flow of its children; any other element is
// laid out alone. Metadata has no visual form and is rejected.
func (l *Layouter) RootContext(ctx context.Context, e *engine.Engine, c content.Content, styles style.Chain) (*model.Document, error) {
	if c.Kind() == content.KindMetadata {
		return nil, engine.NewNotStandaloneError(c)
	}

	r := pageRegion(styles)
	children := []content.Content{c}
	if seq, ok := c.(*content.Sequence); ok {
		children = seq.Children
	}

	blocks := make([]block, 0, len(children))
	for _, child := range children {
		frags, err := l.element(ctx, e, child, styles, r.width())
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block{fragments: frags})
	}

	pages := paginate(blocks, r)
	l.logger.Debug("layout complete", "kind", c.Kind(), "pages", len(pages))
	return model.New(pages, styles), nil
}

func pageRegion(styles style.Chain) region {
	return region{
		page: frame.Size{
			W: frame.Pt(styles.Int(style.PageWidth)),
			H: frame.Pt(styles.Int(style.PageHeight)),
		},
		margin:  frame.Pt(styles.Int(style.PageMargin)),
		spacing: frame.Pt(styles.Int(style.ParSpacing)),
		fill:    styles.String(style.PageFill),
	}
}

// element lays out one block-level element, locating it if needed and
// going through the cache when one is configured.
func (l *Layouter) element(ctx context.Context, e *engine.Engine, c content.Content, styles style.Chain, width frame.Abs) ([]frame.Frame, error) {
	if c.Kind().Locatable() && c.Location().IsZero() {
		c = content.WithLocation(c, e.Locator.Next())
	}
	if l.cache == nil || !cacheable(c) {
		return l.build(ctx, e, c, styles, width)
	}

	files, err := filesOf(e, c)
	if err != nil {
		// Let the uncached path report the missing file.
		return l.build(ctx, e, c, styles, width)
	}
	key := memo.Key(c, styles, width, files)
	if frags, ok := l.cache.Lookup(ctx, key, e.Introspector); ok {
		return frags, nil
	}

	local := introspect.NewConstraint()
	inner := e.WithIntrospector(introspect.Track(e.Introspector, local))
	errorsBefore := len(e.Tracer.Errors())
	frags, err := l.build(ctx, inner, c, styles, width)
	if err != nil {
		return nil, err
	}
	// Layouts that produced diagnostics are not cached: a hit would
	// silently drop them.
	if len(e.Tracer.Errors()) == errorsBefore {
		l.cache.Store(ctx, key, string(c.Kind()), frags, local)
	}
	return frags, nil
}

// cacheable reports whether c can be served from the cache. Refs are cheap
// and report diagnostics; subtrees still needing locations would skip
// locator calls on a hit.
func cacheable(c content.Content) bool {
	if c.Kind() == content.KindRef || c.Kind() == content.KindMetadata {
		return false
	}
	return fullyLocated(c)
}

func fullyLocated(c content.Content) bool {
	if c.Kind().Locatable() && c.Location().IsZero() {
		return false
	}
	var children []content.Content
	switch n := c.(type) {
	case *content.Figure:
		children = n.Body
	case *content.Sequence:
		children = n.Children
	}
	for _, child := range children {
		if !fullyLocated(child) {
			return false
		}
	}
	return true
}

func (l *Layouter) build(ctx context.Context, e *engine.Engine, c content.Content, styles style.Chain, width frame.Abs) ([]frame.Frame, error) {
	var (
		frags []frame.Frame
		err   error
	)
	switch n := c.(type) {
	case *content.Heading:
		frags = layoutHeading(e, n, styles, width)
	case *content.Paragraph:
		frags = layoutParagraph(n, styles, width)
	case *content.List:
		frags = layoutList(n, styles, width)
	case *content.Outline:
		frags = layoutOutline(e, n, styles, width)
	case *content.Ref:
		frags = layoutRef(e, n, styles, width)
	case *content.Figure:
		frags, err = l.layoutFigure(ctx, e, n, styles, width)
	case *content.Metadata:
		frags = []frame.Frame{*frame.New(frame.Size{W: width})}
	case *content.Sequence:
		frags, err = l.layoutSequence(ctx, e, n, styles, width)
	default:
		return nil, &engine.LayoutError{
			Code:    engine.ErrCodeInvalidElement,
			Message: fmt.Sprintf("cannot lay out %T", c),
		}
	}
	if err != nil {
		return nil, err
	}

	if c.Kind().Locatable() {
		if len(frags) == 0 {
			frags = []frame.Frame{*frame.New(frame.Size{W: width})}
		}
		first := &frags[0]
		first.Items = append([]frame.Positioned{{Item: frame.Tag{Content: c}}}, first.Items...)
	}
	return frags, nil
}

// layoutSequence lays out a nested sequence as one unbreakable frame.
func (l *Layouter) layoutSequence(ctx context.Context, e *engine.Engine, seq *content.Sequence, styles style.Chain, width frame.Abs) ([]frame.Frame, error) {
	inner, err := e.Enter("sequence")
	if err != nil {
		return nil, err
	}
	var parts []frame.Frame
	for _, child := range seq.Children {
		frags, err := l.element(ctx, inner, child, styles, width)
		if err != nil {
			return nil, err
		}
		parts = append(parts, stack(frags, width, 0))
	}
	if len(parts) == 0 {
		return nil, nil
	}
	return []frame.Frame{stack(parts, width, frame.Pt(styles.Int(style.ParSpacing)))}, nil
}

// filesOf returns the content hash of every world file c reads, keyed by
// path.
func filesOf(e *engine.Engine, c content.Content) (map[string]string, error) {
	files := map[string]string{}
	var walk func(content.Content) error
	walk = func(c content.Content) error {
		switch n := c.(type) {
		case *content.Figure:
			if n.Image != "" {
				data, err := e.World.File(n.Image)
				if err != nil {
					return err
				}
				files[n.Image] = fileHash(data)
			}
			for _, child := range n.Body {
				if err := walk(child); err != nil {
					return err
				}
			}
		case *content.Sequence:
			for _, child := range n.Children {
				if err := walk(child); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return files, walk(c)
}
