package world

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"cuelang.org/go/cue"
)

// MemoryWorld serves files from a map. Every file ending in .cue is part
// of the document source.
type MemoryWorld struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemory returns a world holding a copy of files. Keys are
// slash-separated paths relative to the root.
func NewMemory(files map[string][]byte) *MemoryWorld {
	w := &MemoryWorld{files: make(map[string][]byte, len(files))}
	for p, data := range files {
		w.files[p] = append([]byte(nil), data...)
	}
	return w
}

func (w *MemoryWorld) Root() string { return "." }

// Source compiles every .cue file in name order and unifies them.
func (w *MemoryWorld) Source(ctx *cue.Context) (cue.Value, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var names []string
	for p := range w.files {
		if strings.HasSuffix(p, ".cue") {
			names = append(names, p)
		}
	}
	if len(names) == 0 {
		return cue.Value{}, fmt.Errorf("no CUE files in document")
	}
	sort.Strings(names)

	v := ctx.CompileString("{}")
	for _, name := range names {
		f := ctx.CompileBytes(w.files[name], cue.Filename(name))
		if err := f.Err(); err != nil {
			return cue.Value{}, err
		}
		v = v.Unify(f)
	}
	if err := v.Err(); err != nil {
		return cue.Value{}, err
	}
	return v, nil
}

func (w *MemoryWorld) File(p string) ([]byte, error) {
	rel, err := cleanRel(p)
	if err != nil {
		return nil, err
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	data, ok := w.files[rel]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: rel, Err: fs.ErrNotExist}
	}
	return data, nil
}

// Set replaces or adds a file.
func (w *MemoryWorld) Set(p string, data []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[p] = append([]byte(nil), data...)
}

// Reset is a no-op: memory files are always current.
func (w *MemoryWorld) Reset() {}
