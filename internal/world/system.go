package world

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/build"
	"cuelang.org/go/cue/load"
)

// SystemWorld reads from a directory on disk. The document source is the
// CUE package in that directory.
type SystemWorld struct {
	root string

	mu    sync.Mutex
	files map[string][]byte
}

// NewSystem returns a world rooted at dir.
func NewSystem(dir string) (*SystemWorld, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}
	return &SystemWorld{root: abs, files: make(map[string][]byte)}, nil
}

func (w *SystemWorld) Root() string { return w.root }

// Source loads the CUE package in the root directory. Files without a
// package clause are loaded as the anonymous package when the directory
// holds no named one.
func (w *SystemWorld) Source(ctx *cue.Context) (cue.Value, error) {
	inst, err := w.instance("")
	if err != nil {
		anon, anonErr := w.instance("_")
		if anonErr != nil {
			return cue.Value{}, err
		}
		inst = anon
	}
	v := ctx.BuildInstance(inst)
	if err := v.Err(); err != nil {
		return cue.Value{}, err
	}
	return v, nil
}

func (w *SystemWorld) instance(pkg string) (*build.Instance, error) {
	instances := load.Instances([]string{"."}, &load.Config{Dir: w.root, Package: pkg})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances in %s", w.root)
	}
	if err := instances[0].Err; err != nil {
		return nil, err
	}
	return instances[0], nil
}

// File reads p relative to the root and caches the result.
func (w *SystemWorld) File(p string) ([]byte, error) {
	rel, err := cleanRel(p)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if data, ok := w.files[rel]; ok {
		return data, nil
	}
	data, err := os.ReadFile(filepath.Join(w.root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, err
	}
	w.files[rel] = data
	return data, nil
}

func (w *SystemWorld) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files = make(map[string][]byte)
}
