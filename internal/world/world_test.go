package world

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanRel(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		escapes bool
	}{
		{"img/box.svg", "img/box.svg", false},
		{"./img/../box.svg", "box.svg", false},
		{`img\box.svg`, "img/box.svg", false},
		{"../secret", "", true},
		{"img/../../secret", "", true},
		{"/etc/passwd", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := cleanRel(tt.in)
			if tt.escapes {
				assert.ErrorIs(t, err, ErrOutsideRoot)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSystemWorld(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.cue"), []byte(`package doc

body: [{kind: "heading", level: 1, body: "Intro"}]
`), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "img"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "img", "box.svg"), []byte("<svg/>"), 0o644))

	w, err := NewSystem(dir)
	require.NoError(t, err)

	v, err := w.Source(cuecontext.New())
	require.NoError(t, err)
	body, err := v.LookupPath(cue.ParsePath("body[0].body")).String()
	require.NoError(t, err)
	assert.Equal(t, "Intro", body)

	data, err := w.File("img/box.svg")
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))

	// Cached until Reset.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "img", "box.svg"), []byte("<svg>2</svg>"), 0o644))
	data, _ = w.File("img/box.svg")
	assert.Equal(t, "<svg/>", string(data))
	w.Reset()
	data, _ = w.File("img/box.svg")
	assert.Equal(t, "<svg>2</svg>", string(data))

	_, err = w.File("../outside")
	assert.ErrorIs(t, err, ErrOutsideRoot)

	_, err = w.File("missing.png")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestSystemWorldPackagelessSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.cue"), []byte(`body: [{kind: "heading", body: "Only heading"}]
`), 0o644))

	w, err := NewSystem(dir)
	require.NoError(t, err)

	v, err := w.Source(cuecontext.New())
	require.NoError(t, err)
	body, err := v.LookupPath(cue.ParsePath("body[0].body")).String()
	require.NoError(t, err)
	assert.Equal(t, "Only heading", body)
}

func TestSystemWorldSourceErrors(t *testing.T) {
	t.Run("no files", func(t *testing.T) {
		w, err := NewSystem(t.TempDir())
		require.NoError(t, err)
		_, err = w.Source(cuecontext.New())
		assert.Error(t, err)
	})

	t.Run("syntax error", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.cue"), []byte("body: [\n"), 0o644))
		w, err := NewSystem(dir)
		require.NoError(t, err)
		_, err = w.Source(cuecontext.New())
		assert.Error(t, err)
	})
}

func TestNewSystemRejectsFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "doc.cue")
	require.NoError(t, os.WriteFile(f, []byte("x: 1"), 0o644))

	_, err := NewSystem(f)
	assert.ErrorContains(t, err, "not a directory")

	_, err = NewSystem(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestMemoryWorld(t *testing.T) {
	w := NewMemory(map[string][]byte{
		"a.cue":   []byte(`set: text: size: 12`),
		"b.cue":   []byte(`body: [{kind: "par", body: "hi"}]`),
		"box.svg": []byte("<svg/>"),
	})

	v, err := w.Source(cuecontext.New())
	require.NoError(t, err)
	size, err := v.LookupPath(cue.ParsePath("set.text.size")).Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(12), size)
	assert.True(t, v.LookupPath(cue.ParsePath("body")).Exists())

	data, err := w.File("./box.svg")
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))

	_, err = w.File("nope.svg")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	w.Set("box.svg", []byte("<svg>2</svg>"))
	data, _ = w.File("box.svg")
	assert.Equal(t, "<svg>2</svg>", string(data))
}

func TestMemoryWorldSourceErrors(t *testing.T) {
	_, err := NewMemory(nil).Source(cuecontext.New())
	assert.ErrorContains(t, err, "no CUE files")

	_, err = NewMemory(map[string][]byte{"a.cue": []byte(`x: 1`), "b.cue": []byte(`x: 2`)}).Source(cuecontext.New())
	assert.Error(t, err, "conflicting values")
}
