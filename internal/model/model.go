// Package model defines the compiled document.
package model

import (
	"github.com/roach88/scribe/internal/frame"
	"github.com/roach88/scribe/internal/introspect"
	"github.com/roach88/scribe/internal/style"
)

// Page is one laid-out page. Number is 1-based.
type Page struct {
	Frame  frame.Frame
	Number int
}

// Document is the result of a compile or an isolated re-layout.
type Document struct {
	Pages        []Page
	Introspector *introspect.Introspector

	// Styles is the root style chain the document was laid out with.
	// Re-layout of any element of this document reuses it unchanged.
	Styles style.Chain
}

// New assembles a document from page frames and builds its introspector.
func New(frames []frame.Frame, styles style.Chain) *Document {
	doc := &Document{
		Pages:        make([]Page, len(frames)),
		Introspector: introspect.New(frames),
		Styles:       styles,
	}
	for i, f := range frames {
		doc.Pages[i] = Page{Frame: f, Number: i + 1}
	}
	return doc
}

