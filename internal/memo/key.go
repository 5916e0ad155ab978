package memo

import (
	"github.com/roach88/scribe/internal/content"
	"github.com/roach88/scribe/internal/frame"
	"github.com/roach88/scribe/internal/ir"
	"github.com/roach88/scribe/internal/style"
)

// Key identifies one element layout: the element (including its label and
// location), the resolved styles, the available width, and the hashes of
// world files the element reads.
func Key(c content.Content, styles style.Chain, width frame.Abs, files map[string]string) string {
	fileObj := make(ir.IRObject, len(files))
	for path, hash := range files {
		fileObj[path] = ir.IRString(hash)
	}
	return ir.MustHash(ir.DomainLayout, ir.IRObject{
		"content": content.ToIR(c),
		"styles":  styles.Resolved(),
		"width":   ir.IRInt(width),
		"files":   fileObj,
		"version": ir.IRString(ir.LayoutVersion),
	})
}
