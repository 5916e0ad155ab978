package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scribe/internal/content"
)

func TestAsLocatable(t *testing.T) {
	ok := []Selector{
		Elem{Kind: content.KindHeading},
		Elem{Kind: content.KindMetadata},
		Label{Name: "intro"},
		Location{Loc: 1},
		Or{Selectors: []Selector{Elem{Kind: content.KindFigure}, Label{Name: "x"}}},
	}
	for _, s := range ok {
		t.Run(s.String(), func(t *testing.T) {
			l, err := AsLocatable(s)
			require.NoError(t, err)
			assert.Equal(t, s, l.Selector())
			assert.Equal(t, Hash(s), l.Hash())
		})
	}
}

func TestAsLocatableRejects(t *testing.T) {
	tests := []struct {
		name string
		sel  Selector
		want []string
	}{
		{"paragraph", Elem{Kind: content.KindParagraph}, []string{"par is not locatable"}},
		{"sequence", Elem{Kind: content.KindSequence}, []string{"sequence is not locatable"}},
		{"empty or", Or{}, []string{"empty or"}},
		{"nil", nil, []string{"nil selector"}},
		{
			"collects all problems",
			And{Selectors: []Selector{Elem{Kind: content.KindList}, Label{}}},
			[]string{"list is not locatable", "empty label"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AsLocatable(tt.sel)
			require.Error(t, err)
			for _, want := range tt.want {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestZeroLocatableMatchesNothing(t *testing.T) {
	var l Locatable
	assert.False(t, l.Matches(&content.Heading{Level: 1}))
	assert.Equal(t, "<invalid>", l.String())
}

func TestMustLocatablePanics(t *testing.T) {
	assert.Panics(t, func() { MustLocatable(Elem{Kind: content.KindParagraph}) })
}
