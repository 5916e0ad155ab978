// Package world provides the read-only resources a compile draws on: the
// CUE document source and the files it references.
package world

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"cuelang.org/go/cue"
)

// ErrOutsideRoot is returned for paths that escape the world's root.
var ErrOutsideRoot = errors.New("path escapes the document root")

// World is everything a compile may read. Implementations must return the
// same bytes for the same path until Reset is called.
type World interface {
	// Root is the directory document paths are relative to.
	Root() string

	// Source builds the document's CUE value in ctx.
	Source(ctx *cue.Context) (cue.Value, error)

	// File returns the contents of a file below Root.
	File(p string) ([]byte, error)

	// Reset drops cached file contents so the next compile sees changes on
	// disk.
	Reset()
}

// cleanRel validates a document-relative path and returns it in clean
// slash form.
func cleanRel(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("empty path: %w", fs.ErrInvalid)
	}
	p = strings.ReplaceAll(p, "\\", "/")
	if path.IsAbs(p) {
		return "", fmt.Errorf("%s: %w", p, ErrOutsideRoot)
	}
	clean := path.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%s: %w", p, ErrOutsideRoot)
	}
	return clean, nil
}
