package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scribe/internal/ir"
	"github.com/roach88/scribe/internal/style"
)

func TestKindLocatable(t *testing.T) {
	tests := []struct {
		kind      Kind
		locatable bool
	}{
		{KindHeading, true},
		{KindFigure, true},
		{KindOutline, true},
		{KindRef, true},
		{KindMetadata, true},
		{KindParagraph, false},
		{KindList, false},
		{KindSequence, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.True(t, tt.kind.Valid())
			assert.Equal(t, tt.locatable, tt.kind.Locatable())
		})
	}
	assert.False(t, Kind("table").Valid())
}

func TestEveryNodeIsContent(t *testing.T) {
	nodes := []Content{
		&Heading{}, &Paragraph{}, &Figure{}, &List{},
		&Outline{}, &Ref{}, &Metadata{}, &Sequence{},
	}
	for _, n := range nodes {
		t.Run(string(n.Kind()), func(t *testing.T) {
			located := WithLocation(WithLabel(n, "x"), 3)
			assert.Equal(t, n.Kind(), located.Kind())
			assert.Equal(t, "x", located.Label())
			assert.Equal(t, Location(3), located.Location())
			assert.Empty(t, n.Label())
		})
	}
}

func TestWithLabelAndLocationCopy(t *testing.T) {
	h := &Heading{Level: 1, Body: "Intro"}

	labelled := WithLabel(h, "intro")
	located := WithLocation(labelled, 7)

	assert.Equal(t, "", h.Label(), "original untouched")
	assert.True(t, h.Location().IsZero())
	assert.Equal(t, "intro", located.Label())
	assert.Equal(t, Location(7), located.Location())
	assert.True(t, labelled.Location().IsZero())
}

func TestField(t *testing.T) {
	h := WithLabel(&Heading{Level: 2, Body: "Methods"}, "methods")

	v, ok := Field(h, "level")
	require.True(t, ok)
	assert.Equal(t, ir.IRInt(2), v)

	v, ok = Field(h, "label")
	require.True(t, ok)
	assert.Equal(t, ir.IRString("methods"), v)

	_, ok = Field(h, "caption")
	assert.False(t, ok)
}

func TestIRRoundTrip(t *testing.T) {
	nodes := []Content{
		WithLocation(WithLabel(&Heading{Level: 2, Body: "Results"}, "results"), 3),
		&Paragraph{Body: "Some text."},
		WithLabel(&Figure{
			Caption: "A box",
			Image:   "box.svg",
			Height:  40,
			Body:    []Content{&Paragraph{Body: "inside"}},
			Set:     style.Styles{{Property: style.TextSize, Value: ir.IRInt(9)}},
		}, "fig-box"),
		&List{Items: []string{"one", "two"}},
		&Outline{Title: "Contents"},
		&Ref{Target: "results"},
		&Metadata{Value: ir.IRObject{"draft": ir.IRBool(true)}},
		&Sequence{Children: []Content{&Paragraph{Body: "a"}, &Heading{Level: 1, Body: "b"}}},
	}

	for _, n := range nodes {
		t.Run(string(n.Kind()), func(t *testing.T) {
			back, err := FromIR(ToIR(n))
			require.NoError(t, err)
			assert.Equal(t, Hash(n), Hash(back))
			assert.Equal(t, n.Kind(), back.Kind())
			assert.Equal(t, n.Label(), back.Label())
			assert.Equal(t, n.Location(), back.Location())
		})
	}
}

func TestFromIRErrors(t *testing.T) {
	_, err := FromIR(ir.IRObject{"kind": ir.IRString("table")})
	assert.ErrorContains(t, err, "unknown content kind")

	_, err = FromIR(ir.IRObject{"kind": ir.IRString("heading"), "level": ir.IRString("one")})
	assert.ErrorContains(t, err, "expected int")
}

func TestHashIncludesLocation(t *testing.T) {
	h := &Heading{Level: 1, Body: "Intro"}
	assert.NotEqual(t, Hash(h), Hash(WithLocation(h, 1)))
	assert.Equal(t, Hash(WithLocation(h, 1)), Hash(WithLocation(h, 1)))
}
