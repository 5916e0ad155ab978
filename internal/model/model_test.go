package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scribe/internal/content"
	"github.com/roach88/scribe/internal/frame"
	"github.com/roach88/scribe/internal/ir"
	"github.com/roach88/scribe/internal/style"
)

func TestNew(t *testing.T) {
	p1 := frame.New(frame.Size{W: frame.Pt(100), H: frame.Pt(100)})
	p1.Push(frame.Point{}, frame.Tag{Content: content.WithLocation(&content.Heading{Level: 1, Body: "A"}, 1)})
	p2 := frame.New(frame.Size{W: frame.Pt(100), H: frame.Pt(100)})
	p2.Push(frame.Point{}, frame.Tag{Content: content.WithLocation(&content.Heading{Level: 1, Body: "B"}, 2)})

	styles := style.NewChain(style.Styles{{Property: style.TextSize, Value: ir.IRInt(14)}})
	doc := New([]frame.Frame{*p1, *p2}, styles)

	require.Len(t, doc.Pages, 2)
	assert.Equal(t, 1, doc.Pages[0].Number)
	assert.Equal(t, 2, doc.Pages[1].Number)
	assert.Equal(t, 2, doc.Introspector.Len())
	assert.Equal(t, int64(14), doc.Styles.Int(style.TextSize))
	assert.Equal(t, *p2, doc.Pages[1].Frame)

	page, ok := doc.Introspector.Page(2)
	require.True(t, ok)
	assert.Equal(t, 2, page)
}

func TestNewEmpty(t *testing.T) {
	doc := New(nil, style.Chain{})
	assert.Empty(t, doc.Pages)
	assert.Equal(t, 0, doc.Introspector.Len())
}
