package layout

import (
	"github.com/roach88/scribe/internal/frame"
)

// block is the laid-out output of one element: fragments stacked top to
// bottom. A page break may fall between fragments of a block.
type block struct {
	fragments []frame.Frame
}

// region is the printable area of a page.
type region struct {
	page    frame.Size
	margin  frame.Abs
	spacing frame.Abs
	fill    string
}

func (r region) width() frame.Abs  { return r.page.W - 2*r.margin }
func (r region) height() frame.Abs { return r.page.H - 2*r.margin }

// paginate stacks blocks onto pages. Blocks are separated by the region's
// spacing; a fragment that does not fit moves to a new page unless the
// page is still empty, in which case it overflows. No blocks, no pages.
func paginate(blocks []block, r region) []frame.Frame {
	var pages []frame.Frame
	var page *frame.Frame
	var y frame.Abs
	empty := true

	newPage := func() {
		if page != nil {
			pages = append(pages, *page)
		}
		page = frame.New(r.page)
		if r.fill != "" {
			page.Push(frame.Point{}, frame.Shape{Size: r.page, Fill: r.fill})
		}
		y = 0
		empty = true
	}

	for i, b := range blocks {
		if page == nil {
			newPage()
		}
		if i > 0 && !empty {
			y += r.spacing
		}
		for _, f := range b.fragments {
			if !empty && y+f.Size.H > r.height() {
				newPage()
			}
			page.PushFrame(frame.Point{X: r.margin, Y: r.margin + y}, &f)
			y += f.Size.H
			if f.Size.H > 0 {
				empty = false
			}
		}
	}
	if page != nil {
		pages = append(pages, *page)
	}
	return pages
}

// stack joins fragments into one frame of the given width, separated by
// gap.
func stack(fragments []frame.Frame, width, gap frame.Abs) frame.Frame {
	out := frame.New(frame.Size{W: width})
	var y frame.Abs
	for i := range fragments {
		if i > 0 {
			y += gap
		}
		out.PushFrame(frame.Point{Y: y}, &fragments[i])
		y += fragments[i].Size.H
	}
	out.Size.H = y
	return *out
}
