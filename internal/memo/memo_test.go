package memo

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scribe/internal/content"
	"github.com/roach88/scribe/internal/frame"
	"github.com/roach88/scribe/internal/introspect"
	"github.com/roach88/scribe/internal/ir"
	"github.com/roach88/scribe/internal/selector"
	"github.com/roach88/scribe/internal/store"
	"github.com/roach88/scribe/internal/style"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

var headings = selector.MustLocatable(selector.Elem{Kind: content.KindHeading})

func index(bodies ...string) *introspect.Introspector {
	f := frame.New(frame.Size{W: frame.Pt(100), H: frame.Pt(100)})
	for i, b := range bodies {
		f.Push(frame.Point{}, frame.Tag{Content: content.WithLocation(&content.Heading{Level: 1, Body: b}, content.Location(i+1))})
	}
	return introspect.New([]frame.Frame{*f})
}

func fragment(text string) []frame.Frame {
	f := frame.New(frame.Size{W: frame.Pt(100), H: frame.Pt(20)})
	f.Push(frame.Point{}, frame.Text{Body: text, Size: frame.Pt(11), Fill: "#000000"})
	return []frame.Frame{*f}
}

// layoutOutline simulates an element layout that reads the headings.
func layoutOutline(i introspect.Introspection) ([]frame.Frame, *introspect.Constraint) {
	c := introspect.NewConstraint()
	n := len(introspect.Track(i, c).Query(headings))
	return fragment(string(rune('0' + n))), c
}

func TestLookupMissThenHit(t *testing.T) {
	ctx := context.Background()
	cache, err := New(8, WithLogger(discard))
	require.NoError(t, err)

	in := index("A", "B")
	_, ok := cache.Lookup(ctx, "k", in)
	assert.False(t, ok)

	frags, c := layoutOutline(in)
	cache.Store(ctx, "k", "outline", frags, c)

	got, ok := cache.Lookup(ctx, "k", in)
	require.True(t, ok)
	assert.Equal(t, frags, got)
	assert.Equal(t, Stats{Hits: 1, Misses: 1}, cache.Stats())
}

func TestLookupInvalidatesOnChangedAnswers(t *testing.T) {
	ctx := context.Background()
	cache, err := New(8, WithLogger(discard))
	require.NoError(t, err)

	frags, c := layoutOutline(index("A", "B"))
	cache.Store(ctx, "k", "outline", frags, c)

	_, ok := cache.Lookup(ctx, "k", index("A", "B", "C"))
	assert.False(t, ok)
	assert.Equal(t, int64(1), cache.Stats().Invalidations)
	assert.Equal(t, 0, cache.Len(), "stale entry evicted")
}

func TestHitRecordsIntoCallerConstraint(t *testing.T) {
	ctx := context.Background()
	cache, err := New(8, WithLogger(discard))
	require.NoError(t, err)

	in := index("A")
	frags, c := layoutOutline(in)
	cache.Store(ctx, "k", "outline", frags, c)

	outer := introspect.NewConstraint()
	_, ok := cache.Lookup(ctx, "k", in.Track(outer))
	require.True(t, ok)
	assert.Equal(t, 1, outer.Len())
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreTierSurvivesNewCache(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	cache, err := New(8, WithStore(s), WithLogger(discard))
	require.NoError(t, err)

	in := index("A", "B")
	frags, c := layoutOutline(in)
	cache.Store(ctx, "k", "outline", frags, c)

	next, err := New(8, WithStore(s), WithLogger(discard))
	require.NoError(t, err)
	got, ok := next.Lookup(ctx, "k", in)
	require.True(t, ok)
	assert.Equal(t, ir.MustHash(ir.DomainLayout, frame.ToIR(frags[0])), ir.MustHash(ir.DomainLayout, frame.ToIR(got[0])))
	assert.Equal(t, int64(1), next.Stats().StoreHits)
	assert.Equal(t, 1, next.Len(), "promoted to memory")

	// A fresh cache over the same store sees the entry but rejects it
	// once the answers change, and drops the row.
	fresh, err := New(8, WithStore(s), WithLogger(discard))
	require.NoError(t, err)
	_, ok = fresh.Lookup(ctx, "k", index("A"))
	assert.False(t, ok)
	assert.Equal(t, Stats{Misses: 1, Invalidations: 1}, fresh.Stats())

	_, found, err := s.GetLayout(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found, "stale row deleted")
}

func TestMemoryInvalidationCountsOnceAndDropsRow(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	cache, err := New(8, WithStore(s), WithLogger(discard))
	require.NoError(t, err)

	frags, c := layoutOutline(index("A", "B"))
	cache.Store(ctx, "k", "outline", frags, c)

	_, ok := cache.Lookup(ctx, "k", index("A", "B", "C"))
	assert.False(t, ok)
	assert.Equal(t, Stats{Misses: 1, Invalidations: 1}, cache.Stats())
	assert.Equal(t, 0, cache.Len())

	_, found, err := s.GetLayout(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	// The next lookup is a plain miss.
	_, ok = cache.Lookup(ctx, "k", index("A", "B", "C"))
	assert.False(t, ok)
	assert.Equal(t, Stats{Misses: 2, Invalidations: 1}, cache.Stats())
}

func TestPruneAndStored(t *testing.T) {
	ctx := context.Background()

	memOnly, err := New(8, WithLogger(discard))
	require.NoError(t, err)
	n, err := memOnly.Prune(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, n)
	counts, err := memOnly.Stored(ctx)
	require.NoError(t, err)
	assert.Nil(t, counts)

	cache, err := New(8, WithStore(openStore(t)), WithLogger(discard))
	require.NoError(t, err)
	in := index("A")
	for _, key := range []string{"a", "b", "c"} {
		frags, c := layoutOutline(in)
		cache.Store(ctx, key, "outline", frags, c)
	}
	frags, c := layoutOutline(in)
	cache.Store(ctx, "d", "heading", frags, c)

	counts, err = cache.Stored(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"heading": 1, "outline": 3}, counts)

	n, err = cache.Prune(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	counts, err = cache.Stored(ctx)
	require.NoError(t, err)
	total := 0
	for _, v := range counts {
		total += v
	}
	assert.Equal(t, 2, total)
}

func TestKey(t *testing.T) {
	h := content.WithLocation(&content.Heading{Level: 1, Body: "A"}, 1)
	chain := style.NewChain(nil)
	base := Key(h, chain, frame.Pt(400), nil)

	assert.Equal(t, base, Key(h, chain, frame.Pt(400), map[string]string{}))
	assert.NotEqual(t, base, Key(h, chain, frame.Pt(300), nil))
	assert.NotEqual(t, base, Key(content.WithLocation(h, 2), chain, frame.Pt(400), nil))
	assert.NotEqual(t, base, Key(h, chain.Chain(style.Styles{{Property: style.TextSize, Value: ir.IRInt(20)}}), frame.Pt(400), nil))
	assert.NotEqual(t, base, Key(h, chain, frame.Pt(400), map[string]string{"a.svg": "x"}))
}
