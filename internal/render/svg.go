// Package render encodes frames as SVG.
//
// Output depends only on the frame: lengths are printed from integral
// values and items are written in paint order, so equal frames always
// render to identical bytes.
package render

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/roach88/scribe/internal/frame"
)

// SVG renders f as a standalone SVG document. One frame unit is one
// point; the root element's size is given in points.
func SVG(f frame.Frame) []byte {
	var b bytes.Buffer
	w, h := f.Size.W.String(), f.Size.H.String()
	fmt.Fprintf(&b, `<svg class="scribe-page" xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%spt" height="%spt" viewBox="0 0 %s %s">`+"\n",
		w, h, w, h)
	writeFrame(&b, f, 1)
	b.WriteString("</svg>\n")
	return b.Bytes()
}

func writeFrame(b *bytes.Buffer, f frame.Frame, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, p := range f.Items {
		x, y := p.Pos.X.String(), p.Pos.Y.String()
		switch it := p.Item.(type) {
		case frame.Text:
			fmt.Fprintf(b, `%s<text x="%s" y="%s" font-family="monospace" font-size="%s" fill="%s"`,
				indent, x, y, it.Size, attr(it.Fill))
			if it.Width > 0 {
				fmt.Fprintf(b, ` textLength="%s"`, it.Width)
			}
			b.WriteString(` xml:space="preserve">`)
			_ = xml.EscapeText(b, []byte(it.Body))
			b.WriteString("</text>\n")
		case frame.Shape:
			fmt.Fprintf(b, `%s<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
				indent, x, y, it.Size.W, it.Size.H, attr(it.Fill))
		case frame.Image:
			fmt.Fprintf(b, `%s<image x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="none" xlink:href="data:%s;base64,%s"/>`+"\n",
				indent, x, y, it.Size.W, it.Size.H, attr(it.Mime), base64.StdEncoding.EncodeToString(it.Data))
		case frame.Group:
			fmt.Fprintf(b, `%s<g transform="translate(%s %s)">`+"\n", indent, x, y)
			writeFrame(b, it.Frame, depth+1)
			fmt.Fprintf(b, "%s</g>\n", indent)
		case frame.Tag:
			// Tags are invisible.
		}
	}
}

func attr(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
