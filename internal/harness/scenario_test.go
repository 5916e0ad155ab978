package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scribe/internal/content"
	"github.com/roach88/scribe/internal/query"
)

const minimalScenario = `
name: minimal
description: "smallest valid scenario"
document: |
  body: [{kind: "heading", body: "Hi"}]
selector: heading
expect:
  status: done
`

func TestParseScenario_Minimal(t *testing.T) {
	s, err := ParseScenario([]byte(minimalScenario))
	require.NoError(t, err)

	assert.Equal(t, "minimal", s.Name)
	assert.Equal(t, "heading", s.Selector)
	assert.Equal(t, StatusDone, s.Expect.Status)
	assert.Nil(t, s.Expect.Matches)
	assert.Nil(t, s.Expect.FileWritten)
	assert.Contains(t, s.Document, `kind: "heading"`)
}

func TestParseScenario_AllFields(t *testing.T) {
	src := `
name: full
description: "every field"
run_id: run-full
document: 'body: []'
files:
  img/a.png: "png"
selector: figure
options:
  output: out/a.svg
  match: exactly-one
  on_empty: skip
expect:
  status: aborted
  state: queried
  error_kind: CountMismatch
  matches: 2
  element: figure
  file_written: false
  contains: ["found 2"]
`
	s, err := ParseScenario([]byte(src))
	require.NoError(t, err)

	assert.Equal(t, "run-full", s.RunID)
	assert.Equal(t, map[string]string{"img/a.png": "png"}, s.Files)
	assert.Equal(t, RunOptions{Output: "out/a.svg", Match: "exactly-one", OnEmpty: "skip"}, s.Options)
	assert.Equal(t, query.StateQueried, s.Expect.State)
	assert.Equal(t, query.KindCountMismatch, s.Expect.ErrorKind)
	require.NotNil(t, s.Expect.Matches)
	assert.Equal(t, 2, *s.Expect.Matches)
	assert.Equal(t, content.KindFigure, s.Expect.Element)
	require.NotNil(t, s.Expect.FileWritten)
	assert.False(t, *s.Expect.FileWritten)
	assert.Equal(t, []string{"found 2"}, s.Expect.Contains)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "unknown field",
			src:  minimalScenario + "expectations: {}\n",
			want: "failed to parse YAML",
		},
		{
			name: "missing name",
			src:  "description: d\ndocument: x\nselector: heading\nexpect: {status: done}\n",
			want: "name is required",
		},
		{
			name: "missing description",
			src:  "name: n\ndocument: x\nselector: heading\nexpect: {status: done}\n",
			want: "description is required",
		},
		{
			name: "missing document",
			src:  "name: n\ndescription: d\nselector: heading\nexpect: {status: done}\n",
			want: "document is required",
		},
		{
			name: "missing selector",
			src:  "name: n\ndescription: d\ndocument: x\nexpect: {status: done}\n",
			want: "selector is required",
		},
		{
			name: "missing status",
			src:  "name: n\ndescription: d\ndocument: x\nselector: heading\nexpect: {matches: 1}\n",
			want: "expect.status is required",
		},
		{
			name: "unknown status",
			src:  "name: n\ndescription: d\ndocument: x\nselector: heading\nexpect: {status: finished}\n",
			want: `unknown status "finished"`,
		},
		{
			name: "error kind without abort",
			src:  "name: n\ndescription: d\ndocument: x\nselector: heading\nexpect: {status: done, error_kind: EvalError}\n",
			want: "requires status",
		},
		{
			name: "unknown error kind",
			src:  "name: n\ndescription: d\ndocument: x\nselector: heading\nexpect: {status: aborted, error_kind: Oops}\n",
			want: `unknown kind "Oops"`,
		},
		{
			name: "negative matches",
			src:  "name: n\ndescription: d\ndocument: x\nselector: heading\nexpect: {status: done, matches: -1}\n",
			want: "expect.matches",
		},
		{
			name: "empty contains entry",
			src:  "name: n\ndescription: d\ndocument: x\nselector: heading\nexpect: {status: done, contains: ['']}\n",
			want: "expect.contains[0] is empty",
		},
		{
			name: "bad match policy",
			src:  "name: n\ndescription: d\ndocument: x\nselector: heading\noptions: {match: all}\nexpect: {status: done}\n",
			want: "options.match",
		},
		{
			name: "bad empty policy",
			src:  "name: n\ndescription: d\ndocument: x\nselector: heading\noptions: {on_empty: ignore}\nexpect: {status: done}\n",
			want: "options.on_empty",
		},
		{
			name: "absolute output",
			src:  "name: n\ndescription: d\ndocument: x\nselector: heading\noptions: {output: /tmp/x.svg}\nexpect: {status: done}\n",
			want: "path must be relative",
		},
		{
			name: "escaping file",
			src:  "name: n\ndescription: d\ndocument: x\nselector: heading\nfiles: {'../x.png': data}\nexpect: {status: done}\n",
			want: "escapes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenarios_SortedAndUnique(t *testing.T) {
	dir := t.TempDir()
	write := func(file, name string) {
		src := "name: " + name + "\ndescription: d\ndocument: x\nselector: heading\nexpect: {status: done}\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(src), 0o644))
	}
	write("b.yaml", "second")
	write("a.yaml", "first")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	scenarios, err := LoadScenarios(dir)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "first", scenarios[0].Name)
	assert.Equal(t, "second", scenarios[1].Name)

	write("c.yaml", "first")
	_, err = LoadScenarios(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate scenario name "first"`)
}

func TestQueryOptions(t *testing.T) {
	s, err := ParseScenario([]byte(minimalScenario))
	require.NoError(t, err)

	opts, err := s.queryOptions("/work")
	require.NoError(t, err)
	assert.Equal(t, "heading", opts.Selector)
	assert.Equal(t, filepath.Join("/work", query.DefaultOutput), opts.Output)
	assert.Equal(t, query.MatchFirst, opts.Match)
	assert.Equal(t, query.EmptyFail, opts.OnEmpty)

	s.Options = RunOptions{Output: "a/b.svg", Match: "exactly-one", OnEmpty: "skip"}
	opts, err = s.queryOptions("/work")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/work", "a", "b.svg"), opts.Output)
	assert.Equal(t, query.MatchExactlyOne, opts.Match)
	assert.Equal(t, query.EmptySkip, opts.OnEmpty)
}
