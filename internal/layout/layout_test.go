package layout

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scribe/internal/content"
	"github.com/roach88/scribe/internal/engine"
	"github.com/roach88/scribe/internal/frame"
	"github.com/roach88/scribe/internal/introspect"
	"github.com/roach88/scribe/internal/ir"
	"github.com/roach88/scribe/internal/memo"
	"github.com/roach88/scribe/internal/model"
	"github.com/roach88/scribe/internal/style"
	"github.com/roach88/scribe/internal/world"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newEngine(t *testing.T, in introspect.Introspection, files map[string][]byte) *engine.Engine {
	t.Helper()
	return engine.New(world.NewMemory(files), in)
}

// texts returns every text body in f, depth first.
func texts(f frame.Frame) []string {
	var out []string
	for _, p := range f.Items {
		switch it := p.Item.(type) {
		case frame.Text:
			out = append(out, it.Body)
		case frame.Group:
			out = append(out, texts(it.Frame)...)
		}
	}
	return out
}

func allTexts(doc *model.Document) []string {
	var out []string
	for _, p := range doc.Pages {
		out = append(out, texts(p.Frame)...)
	}
	return out
}

func TestWrap(t *testing.T) {
	size := frame.Pt(10) // advance 6pt
	lines := wrap("the quick  brown fox", size, frame.Pt(60))
	assert.Equal(t, []string{"the quick", "brown fox"}, lines)

	assert.Equal(t, []string{"supercalifragilistic"}, wrap("supercalifragilistic", size, frame.Pt(30)))
	assert.Nil(t, wrap("   ", size, frame.Pt(30)))
}

func TestMeasureNormalizes(t *testing.T) {
	size := frame.Pt(10)
	assert.Equal(t, measure("\u00e9", size), measure("e\u0301", size))
	assert.Equal(t, frame.Pt(18), measure("abc", size))
}

func TestRootParagraphPaginates(t *testing.T) {
	styles := style.NewChain(style.Styles{
		{Property: style.PageWidth, Value: ir.IRInt(100)},
		{Property: style.PageHeight, Value: ir.IRInt(60)},
		{Property: style.PageMargin, Value: ir.IRInt(10)},
	})
	// Region 80x40pt; 11pt text + 4pt leading = 15pt lines, two per page.
	body := strings.Repeat("word ", 20)
	doc, err := New(WithLogger(discard)).Root(newEngine(t, introspect.Empty(), nil), &content.Paragraph{Body: body}, styles)
	require.NoError(t, err)

	require.Greater(t, len(doc.Pages), 1)
	for i, p := range doc.Pages {
		assert.Equal(t, i+1, p.Number)
		assert.Equal(t, frame.Size{W: frame.Pt(100), H: frame.Pt(60)}, p.Frame.Size)
	}
	assert.Equal(t, strings.Fields(body), strings.Fields(strings.Join(allTexts(doc), " ")))
}

func TestRootEmptySequenceHasNoPages(t *testing.T) {
	doc, err := New(WithLogger(discard)).Root(newEngine(t, introspect.Empty(), nil), &content.Sequence{}, style.Chain{})
	require.NoError(t, err)
	assert.Empty(t, doc.Pages)
}

func TestRootMetadataNotStandalone(t *testing.T) {
	meta := content.WithLocation(&content.Metadata{Value: ir.IRObject{"x": ir.IRInt(1)}}, 4)
	_, err := New(WithLogger(discard)).Root(newEngine(t, introspect.Empty(), nil), meta, style.Chain{})
	require.Error(t, err)
	assert.True(t, engine.IsNotStandaloneError(err))
}

func TestRootLocatesAndTags(t *testing.T) {
	e := newEngine(t, introspect.Empty(), nil)
	e.Locator = engine.NewLocatorAt(10)

	seq := &content.Sequence{Children: []content.Content{
		content.WithLocation(&content.Heading{Level: 1, Body: "Kept"}, 3),
		&content.Heading{Level: 1, Body: "Fresh"},
		&content.Paragraph{Body: "not located"},
		&content.Metadata{Value: ir.IRObject{"k": ir.IRString("v")}},
	}}
	doc, err := New(WithLogger(discard)).Root(e, seq, style.Chain{})
	require.NoError(t, err)

	assert.Equal(t, 3, doc.Introspector.Len())
	_, ok := doc.Introspector.Page(3)
	assert.True(t, ok, "located content keeps its location")
	_, ok = doc.Introspector.Page(11)
	assert.True(t, ok, "fresh content located above the start")
	_, ok = doc.Introspector.Page(12)
	assert.True(t, ok, "metadata is tagged")
}

func headingIndex(hs ...*content.Heading) *introspect.Introspector {
	f := frame.New(frame.Size{W: frame.Pt(100), H: frame.Pt(100)})
	for _, h := range hs {
		f.Push(frame.Point{}, frame.Tag{Content: h})
	}
	return introspect.New([]frame.Frame{*f})
}

func locatedHeading(loc content.Location, level int64, body string) *content.Heading {
	return content.WithLocation(&content.Heading{Level: level, Body: body}, loc).(*content.Heading)
}

func TestHeadingNumbering(t *testing.T) {
	intro := locatedHeading(1, 1, "Intro")
	methods := locatedHeading(2, 2, "Methods")
	results := locatedHeading(3, 1, "Results")
	e := newEngine(t, headingIndex(intro, methods, results), nil)

	styles := style.NewChain(style.Styles{{Property: style.HeadingNumbering, Value: ir.IRBool(true)}})
	doc, err := New(WithLogger(discard)).Root(e, methods, styles)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.1 Methods"}, allTexts(doc))

	doc, err = New(WithLogger(discard)).Root(e, results, styles)
	require.NoError(t, err)
	assert.Equal(t, []string{"2 Results"}, allTexts(doc))

	// Unknown to the introspector: no number yet.
	doc, err = New(WithLogger(discard)).Root(newEngine(t, introspect.Empty(), nil), methods, styles)
	require.NoError(t, err)
	assert.Equal(t, []string{"Methods"}, allTexts(doc))
}

func TestOutlineListsHeadingsWithPages(t *testing.T) {
	intro := locatedHeading(1, 1, "Intro")
	methods := locatedHeading(2, 2, "Methods")
	e := newEngine(t, headingIndex(intro, methods), nil)

	doc, err := New(WithLogger(discard)).Root(e, &content.Outline{}, style.Chain{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Contents", "Intro", "1", "Methods", "1"}, allTexts(doc))
}

func TestRefResolvesAndReports(t *testing.T) {
	intro := content.WithLabel(locatedHeading(1, 1, "Intro"), "intro").(*content.Heading)
	e := newEngine(t, headingIndex(intro), nil)

	doc, err := New(WithLogger(discard)).Root(e, &content.Ref{Target: "intro"}, style.Chain{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Intro"}, allTexts(doc))
	assert.False(t, e.Tracer.HasErrors())

	doc, err = New(WithLogger(discard)).Root(e, &content.Ref{Target: "nope"}, style.Chain{})
	require.NoError(t, err)
	assert.Equal(t, []string{"??"}, allTexts(doc))
	require.True(t, e.Tracer.HasErrors())
	assert.Contains(t, e.Tracer.Errors()[0].Message, "cannot reference <nope>")
}

func TestFigureImageAndCaption(t *testing.T) {
	fig := content.WithLocation(&content.Figure{
		Caption: "A box",
		Image:   "box.svg",
		Height:  40,
		Body:    []content.Content{&content.Paragraph{Body: "inside"}},
		Set:     style.Styles{{Property: style.TextSize, Value: ir.IRInt(8)}},
	}, 5).(*content.Figure)

	f := frame.New(frame.Size{W: frame.Pt(100), H: frame.Pt(100)})
	f.Push(frame.Point{}, frame.Tag{Content: fig})
	e := newEngine(t, introspect.New([]frame.Frame{*f}), map[string][]byte{"box.svg": []byte("<svg/>")})

	doc, err := New(WithLogger(discard)).Root(e, fig, style.Chain{})
	require.NoError(t, err)
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, []string{"inside", "Figure 1: A box"}, allTexts(doc))

	var img *frame.Image
	var walk func(frame.Frame)
	walk = func(fr frame.Frame) {
		for _, p := range fr.Items {
			switch it := p.Item.(type) {
			case frame.Image:
				img = &it
			case frame.Group:
				walk(it.Frame)
			case frame.Text:
				if it.Body == "inside" {
					assert.Equal(t, frame.Pt(8), it.Size, "local set applies to the body")
				}
			}
		}
	}
	walk(doc.Pages[0].Frame)
	require.NotNil(t, img)
	assert.Equal(t, "image/svg+xml", img.Mime)
	assert.Equal(t, frame.Pt(40), img.Size.H)
}

func TestFigureMissingImage(t *testing.T) {
	fig := &content.Figure{Caption: "gone", Image: "missing.png"}
	_, err := New(WithLogger(discard)).Root(newEngine(t, introspect.Empty(), nil), fig, style.Chain{})
	require.Error(t, err)
	assert.True(t, engine.IsMissingFileError(err))
}

func TestNestingTooDeep(t *testing.T) {
	var c content.Content = &content.Paragraph{Body: "core"}
	for i := 0; i < engine.MaxRouteDepth+1; i++ {
		c = &content.Figure{Body: []content.Content{c}}
	}
	_, err := New(WithLogger(discard)).Root(newEngine(t, introspect.Empty(), nil), c, style.Chain{})
	require.Error(t, err)
	assert.True(t, engine.IsRouteError(err))

	var le *engine.LayoutError
	assert.True(t, errors.As(err, &le))
}

func TestDeterministic(t *testing.T) {
	intro := locatedHeading(1, 1, "Intro")
	seq := &content.Sequence{Children: []content.Content{
		intro,
		&content.Paragraph{Body: "Some text that wraps across a couple of lines at the default size."},
		&content.List{Items: []string{"one", "two"}},
	}}

	hashOf := func() string {
		doc, err := New(WithLogger(discard)).Root(newEngine(t, headingIndex(intro), nil), seq, style.Chain{})
		require.NoError(t, err)
		arr := ir.IRArray{}
		for _, p := range doc.Pages {
			arr = append(arr, frame.ToIR(p.Frame))
		}
		return ir.MustHash(ir.DomainLayout, arr)
	}
	assert.Equal(t, hashOf(), hashOf())
}

func TestCachedLayoutMatchesUncached(t *testing.T) {
	cache, err := memo.New(16, memo.WithLogger(discard))
	require.NoError(t, err)

	intro := locatedHeading(1, 1, "Intro")
	methods := locatedHeading(2, 2, "Methods")
	in := headingIndex(intro, methods)
	seq := &content.Sequence{Children: []content.Content{
		content.WithLocation(&content.Outline{}, 3),
		intro,
		methods,
	}}

	plain, err := New(WithLogger(discard)).Root(newEngine(t, in, nil), seq, style.Chain{})
	require.NoError(t, err)

	cached := New(WithCache(cache), WithLogger(discard))
	first, err := cached.Root(newEngine(t, in, nil), seq, style.Chain{})
	require.NoError(t, err)

	outer := introspect.NewConstraint()
	second, err := cached.Root(newEngine(t, in.Track(outer), nil), seq, style.Chain{})
	require.NoError(t, err)

	assert.Equal(t, allTexts(plain), allTexts(first))
	assert.Equal(t, allTexts(plain), allTexts(second))
	assert.Equal(t, int64(3), cache.Stats().Hits)
	assert.Greater(t, outer.Len(), 0, "hits replay into the caller's constraint")
}
