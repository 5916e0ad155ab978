package layout

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/scribe/internal/frame"
)

// advance is the width of one character at size: a monospace metric of
// 0.6em.
func advance(size frame.Abs) frame.Abs {
	return size * 60 / 100
}

// measure returns the width of s at size. s is NFC-normalized first so
// composed and decomposed spellings measure the same.
func measure(s string, size frame.Abs) frame.Abs {
	return frame.Abs(utf8.RuneCountInString(norm.NFC.String(s))) * advance(size)
}

// wrap breaks s into lines no wider than width. A word wider than width
// gets a line of its own. Whitespace runs collapse to one space.
func wrap(s string, size, width frame.Abs) []string {
	words := strings.Fields(norm.NFC.String(s))
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		candidate := line + " " + w
		if measure(candidate, size) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line = candidate
	}
	return append(lines, line)
}

// textLines lays out s as one frame per line, each lineHeight tall with the
// baseline at size.
func textLines(s string, size, lineHeight, width, indent frame.Abs, fill string) []frame.Frame {
	var out []frame.Frame
	for _, line := range wrap(s, size, width-indent) {
		f := frame.New(frame.Size{W: width, H: lineHeight})
		f.Push(frame.Point{X: indent, Y: size}, frame.Text{
			Body:  line,
			Size:  size,
			Fill:  fill,
			Width: measure(line, size),
		})
		out = append(out, *f)
	}
	return out
}
