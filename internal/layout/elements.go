package layout

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/roach88/scribe/internal/content"
	"github.com/roach88/scribe/internal/engine"
	"github.com/roach88/scribe/internal/frame"
	"github.com/roach88/scribe/internal/ir"
	"github.com/roach88/scribe/internal/style"
)

// defaultFigureHeight is the image height, in points, for figures that
// do not give one.
const defaultFigureHeight = 100

func textSize(styles style.Chain) frame.Abs { return frame.Pt(styles.Int(style.TextSize)) }

func lineHeight(styles style.Chain, size frame.Abs) frame.Abs {
	return size + frame.Pt(styles.Int(style.TextLeading))
}

// headingSize scales the text size by level: 1.6em, 1.4em, 1.2em, then 1em.
func headingSize(styles style.Chain, level int64) frame.Abs {
	base := textSize(styles)
	switch level {
	case 1:
		return base * 16 / 10
	case 2:
		return base * 14 / 10
	case 3:
		return base * 12 / 10
	default:
		return base
	}
}

func layoutHeading(e *engine.Engine, h *content.Heading, styles style.Chain, width frame.Abs) []frame.Frame {
	text := h.Body
	if styles.Bool(style.HeadingNumbering) {
		if num := headingNumber(e, h.Location()); num != "" {
			text = num + " " + text
		}
	}
	size := headingSize(styles, h.Level)
	return textLines(text, size, lineHeight(styles, size), width, 0, styles.String(style.TextFill))
}

func layoutParagraph(p *content.Paragraph, styles style.Chain, width frame.Abs) []frame.Frame {
	size := textSize(styles)
	return textLines(p.Body, size, lineHeight(styles, size), width, 0, styles.String(style.TextFill))
}

func layoutList(l *content.List, styles style.Chain, width frame.Abs) []frame.Frame {
	size := textSize(styles)
	lh := lineHeight(styles, size)
	fill := styles.String(style.TextFill)
	indent := advance(size) * 2

	var out []frame.Frame
	for _, item := range l.Items {
		lines := textLines(item, size, lh, width, indent, fill)
		if len(lines) == 0 {
			continue
		}
		lines[0].Push(frame.Point{Y: size}, frame.Text{Body: "•", Size: size, Fill: fill, Width: advance(size)})
		out = append(out, lines...)
	}
	return out
}

func layoutOutline(e *engine.Engine, o *content.Outline, styles style.Chain, width frame.Abs) []frame.Frame {
	title := o.Title
	if title == "" {
		title = "Contents"
	}
	size := headingSize(styles, 1)
	fill := styles.String(style.TextFill)
	out := textLines(title, size, lineHeight(styles, size), width, 0, fill)

	size = textSize(styles)
	lh := lineHeight(styles, size)
	numbering := styles.Bool(style.HeadingNumbering)
	numbers := headingNumbers(e)
	for _, c := range e.Introspector.Query(headingSelector) {
		h := c.(*content.Heading)
		indent := advance(size) * 2 * frame.Abs(h.Level-1)
		entry := h.Body
		if numbering {
			if num := numbers[h.Location()]; num != "" {
				entry = num + " " + entry
			}
		}
		pageText := "?"
		if page, ok := e.Introspector.Page(h.Location()); ok {
			pageText = strconv.Itoa(page)
		}
		pageWidth := measure(pageText, size)

		f := frame.New(frame.Size{W: width, H: lh})
		f.Push(frame.Point{X: indent, Y: size}, frame.Text{Body: entry, Size: size, Fill: fill, Width: measure(entry, size)})
		f.Push(frame.Point{X: width - pageWidth, Y: size}, frame.Text{Body: pageText, Size: size, Fill: fill, Width: pageWidth})
		out = append(out, *f)
	}
	return out
}

func layoutRef(e *engine.Engine, r *content.Ref, styles style.Chain, width frame.Abs) []frame.Frame {
	size := textSize(styles)
	text := "??"
	target, err := e.Introspector.QueryLabel(r.Target)
	if err != nil {
		e.Tracer.Add(engine.Diagnostic{
			Severity: engine.SeverityError,
			Message:  engine.NewUnresolvedRefError(r, r.Target, err).Error(),
		})
	} else {
		text = refText(e, target, styles)
	}
	return textLines(text, size, lineHeight(styles, size), width, 0, styles.String(style.TextFill))
}

func refText(e *engine.Engine, target content.Content, styles style.Chain) string {
	switch n := target.(type) {
	case *content.Heading:
		if styles.Bool(style.HeadingNumbering) {
			if num := headingNumber(e, n.Location()); num != "" {
				return "Section " + num
			}
		}
		return n.Body
	case *content.Figure:
		if num := figureNumber(e, n.Location()); num != 0 {
			return fmt.Sprintf("Figure %d", num)
		}
		return n.Caption
	default:
		return "<" + target.Label() + ">"
	}
}

func (l *Layouter) layoutFigure(ctx context.Context, e *engine.Engine, f *content.Figure, styles style.Chain, width frame.Abs) ([]frame.Frame, error) {
	inner, err := e.Enter("figure")
	if err != nil {
		return nil, err
	}
	local := styles.Chain(f.Set)
	gap := frame.Pt(local.Int(style.ParSpacing))

	var parts []frame.Frame
	if f.Image != "" {
		data, err := e.World.File(f.Image)
		if err != nil {
			return nil, engine.NewMissingFileError(f, f.Image, err)
		}
		height := f.Height
		if height <= 0 {
			height = defaultFigureHeight
		}
		size := frame.Size{W: width, H: frame.Pt(height)}
		img := frame.New(size)
		img.Push(frame.Point{}, frame.Image{Size: size, Path: f.Image, Mime: mimeOf(f.Image), Data: data})
		parts = append(parts, *img)
	}

	for _, child := range f.Body {
		frags, err := l.element(ctx, inner, child, local, width)
		if err != nil {
			return nil, err
		}
		parts = append(parts, stack(frags, width, 0))
	}

	if caption := figureCaption(e, f, local); caption != "" {
		size := textSize(local)
		lines := textLines(caption, size, lineHeight(local, size), width, 0, local.String(style.TextFill))
		parts = append(parts, stack(lines, width, 0))
	}

	return []frame.Frame{stack(parts, width, gap)}, nil
}

func figureCaption(e *engine.Engine, f *content.Figure, styles style.Chain) string {
	if !styles.Bool(style.FigureNumbering) {
		return f.Caption
	}
	num := figureNumber(e, f.Location())
	switch {
	case num == 0:
		return f.Caption
	case f.Caption == "":
		return fmt.Sprintf("Figure %d", num)
	default:
		return fmt.Sprintf("Figure %d: %s", num, f.Caption)
	}
}

func mimeOf(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

func fileHash(data []byte) string {
	return ir.HashBytes(ir.DomainFile, data)
}
