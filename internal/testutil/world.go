// Package testutil holds helpers shared by package tests.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/scribe/internal/world"
)

// SourceFile is the name helpers give the document source.
const SourceFile = "doc.cue"

// MemoryDocument returns an in-memory world whose document source is src.
// extra adds further files, such as images.
func MemoryDocument(src string, extra map[string][]byte) *world.MemoryWorld {
	files := map[string][]byte{SourceFile: []byte(src)}
	for p, data := range extra {
		files[p] = data
	}
	return world.NewMemory(files)
}

// DocumentDir writes src and extra into a fresh temporary directory and
// returns its path.
func DocumentDir(t testing.TB, src string, extra map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()
	write := func(name string, data []byte) {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write(SourceFile, []byte(src))
	for name, data := range extra {
		write(name, data)
	}
	return dir
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
