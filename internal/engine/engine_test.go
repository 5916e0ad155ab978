package engine

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scribe/internal/content"
	"github.com/roach88/scribe/internal/introspect"
)

func TestNew(t *testing.T) {
	in := introspect.Empty()
	e := New(nil, in)

	assert.Equal(t, 0, e.Route.Depth())
	assert.Empty(t, e.Tracer.Diagnostics())
	assert.True(t, e.Locator.Current().IsZero())
	assert.Same(t, in, e.Introspector)
}

func TestEnterSharesSinks(t *testing.T) {
	e := New(nil, introspect.Empty())

	inner, err := e.Enter("figure")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.Route.Depth())
	assert.Equal(t, 0, e.Route.Depth(), "outer route unchanged")
	assert.Same(t, e.Tracer, inner.Tracer)
	assert.Same(t, e.Locator, inner.Locator)

	inner.Locator.Next()
	assert.Equal(t, content.Location(1), e.Locator.Current())
}

func TestWithIntrospector(t *testing.T) {
	e := New(nil, introspect.Empty())
	view := introspect.Empty().Track(introspect.NewConstraint())

	swapped := e.WithIntrospector(view)
	assert.Same(t, view, swapped.Introspector)
	assert.NotSame(t, view, e.Introspector)
}

func TestRouteDepthLimit(t *testing.T) {
	r := Route{}
	var err error
	for i := 0; i < MaxRouteDepth; i++ {
		r, err = r.Enter(fmt.Sprintf("figure#%d", i))
		require.NoError(t, err)
	}
	assert.Equal(t, MaxRouteDepth, r.Depth())

	_, err = r.Enter("figure")
	require.Error(t, err)
	assert.True(t, IsRouteError(err))

	var le *LayoutError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, fmt.Sprint(MaxRouteDepth), le.Details["depth"])
}

func TestRouteIsAValue(t *testing.T) {
	root := Route{}
	a, _ := root.Enter("a")
	b, _ := a.Enter("b")
	c, _ := a.Enter("c")

	assert.Equal(t, "<root>", root.String())
	assert.Equal(t, "a > b", b.String())
	assert.Equal(t, "a > c", c.String())
}

func TestLocator(t *testing.T) {
	l := NewLocator()
	assert.Equal(t, content.Location(1), l.Next())
	assert.Equal(t, content.Location(2), l.Next())
	assert.Equal(t, content.Location(2), l.Current())

	at := NewLocatorAt(40)
	assert.Equal(t, content.Location(40), at.Current())
	assert.Equal(t, content.Location(41), at.Next())
}

func TestLocatorConcurrentUnique(t *testing.T) {
	l := NewLocator()
	const goroutines, perGoroutine = 20, 50

	var wg sync.WaitGroup
	locs := make(chan content.Location, goroutines*perGoroutine)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				locs <- l.Next()
			}
		}()
	}
	wg.Wait()
	close(locs)

	seen := map[content.Location]bool{}
	for loc := range locs {
		assert.False(t, seen[loc], "location %d handed out twice", loc)
		seen[loc] = true
	}
	assert.Len(t, seen, goroutines*perGoroutine)
}

func TestTracer(t *testing.T) {
	tr := NewTracer()
	tr.Warn("outline has no headings")
	tr.Error("cannot reference <%s>", "nope")
	tr.Add(Diagnostic{Severity: SeverityWarning, Message: "x", Pos: "doc.cue:3:2"})

	require.Len(t, tr.Diagnostics(), 3)
	assert.Len(t, tr.Warnings(), 2)
	assert.True(t, tr.HasErrors())
	assert.Equal(t, "cannot reference <nope>", tr.Errors()[0].Message)
	assert.Equal(t, "doc.cue:3:2: warning: x", tr.Diagnostics()[2].String())

	assert.False(t, NewTracer().HasErrors())
}

func TestLayoutErrors(t *testing.T) {
	meta := content.WithLocation(&content.Metadata{}, 7)

	err := fmt.Errorf("layout: %w", NewNotStandaloneError(meta))
	assert.True(t, IsNotStandaloneError(err))
	assert.False(t, IsRouteError(err))
	assert.Contains(t, err.Error(), "NOT_STANDALONE: metadata has no visual representation (metadata at 7)")

	cause := fmt.Errorf("open box.svg: no such file")
	missing := NewMissingFileError(&content.Figure{}, "box.svg", cause)
	assert.True(t, IsMissingFileError(missing))
	assert.ErrorIs(t, missing, cause)

	ref := NewUnresolvedRefError(&content.Ref{Target: "x"}, "x", nil)
	assert.True(t, IsUnresolvedRefError(ref))
	assert.Equal(t, "UNRESOLVED_REF: cannot reference <x> (ref)", ref.Error())

	assert.False(t, IsRouteError(nil))
}

func TestUUIDv7Generator(t *testing.T) {
	id := UUIDv7Generator{}.Generate()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.NotEqual(t, id, UUIDv7Generator{}.Generate())
}
