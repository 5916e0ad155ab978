// Package frame holds laid-out output: frames of positioned items.
//
// Geometry is integral. Abs counts hundredths of a point, so layout,
// hashing and rendering never touch floating point and identical inputs
// produce byte-identical output.
package frame

import (
	"fmt"

	"github.com/roach88/scribe/internal/content"
)

// Abs is an absolute length in hundredths of a point.
type Abs int64

// Pt converts whole points to Abs.
func Pt(n int64) Abs { return Abs(n * 100) }

// String formats the length in points with at most two decimals.
func (a Abs) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign, v = "-", -v
	}
	whole, frac := v/100, v%100
	switch {
	case frac == 0:
		return fmt.Sprintf("%s%d", sign, whole)
	case frac%10 == 0:
		return fmt.Sprintf("%s%d.%d", sign, whole, frac/10)
	default:
		return fmt.Sprintf("%s%d.%02d", sign, whole, frac)
	}
}

// Point is a position relative to a frame's top-left corner.
type Point struct {
	X, Y Abs
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Size is a width and height.
type Size struct {
	W, H Abs
}

// Frame is a fixed-size region with items placed inside it, in paint order.
type Frame struct {
	Size  Size
	Items []Positioned
}

// New returns an empty frame of the given size.
func New(size Size) *Frame {
	return &Frame{Size: size}
}

// Positioned is an item at a position.
type Positioned struct {
	Pos  Point
	Item Item
}

// Push appends item at pos.
func (f *Frame) Push(pos Point, item Item) {
	f.Items = append(f.Items, Positioned{Pos: pos, Item: item})
}

// PushFrame places a child frame at pos as a group.
func (f *Frame) PushFrame(pos Point, child *Frame) {
	f.Push(pos, Group{Frame: *child})
}

// IsEmpty reports whether the frame has no items.
func (f *Frame) IsEmpty() bool { return len(f.Items) == 0 }

// Item is one element of a frame.
//
// This is a sealed interface - only types in this package implement it.
type Item interface {
	itemNode()
}

// Text is a single line of text. Width is the measured advance.
type Text struct {
	Body  string
	Size  Abs
	Fill  string
	Width Abs
}

func (Text) itemNode() {}

// Shape is a filled rectangle.
type Shape struct {
	Size Size
	Fill string
}

func (Shape) itemNode() {}

// Image is raster or vector data loaded from the world.
type Image struct {
	Size Size
	Path string
	Mime string
	Data []byte
}

func (Image) itemNode() {}

// Group is a nested frame.
type Group struct {
	Frame Frame
}

func (Group) itemNode() {}

// Tag marks where a located element starts. Tags are invisible; the
// introspector is built from them.
type Tag struct {
	Content content.Content
}

func (Tag) itemNode() {}

// Located is a tag found while walking a frame, with its absolute position.
type Located struct {
	Content content.Content
	Pos     Point
}

// Tags returns every tag in f, including those in nested groups, in paint
// order with positions relative to f.
func (f *Frame) Tags() []Located {
	var out []Located
	var walk func(fr *Frame, origin Point)
	walk = func(fr *Frame, origin Point) {
		for i := range fr.Items {
			p := fr.Items[i]
			switch item := p.Item.(type) {
			case Tag:
				out = append(out, Located{Content: item.Content, Pos: origin.Add(p.Pos)})
			case Group:
				walk(&item.Frame, origin.Add(p.Pos))
			}
		}
	}
	walk(f, Point{})
	return out
}
