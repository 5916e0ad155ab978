package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scribe/internal/content"
	"github.com/roach88/scribe/internal/query"
)

func TestSnapshot_MarshalGolden(t *testing.T) {
	r := NewResult()
	r.Status = StatusDone
	r.State = query.StateDone
	r.Matches = 2
	r.Element = content.KindHeading
	r.Location = 3
	r.Pages = 1
	r.FileWritten = true

	data, err := NewSnapshot("sample", r).MarshalGolden()
	require.NoError(t, err)
	assert.Equal(t,
		`{"element":"heading","file_written":true,"location":3,"matches":2,"name":"sample","pages":1,"state":"done","status":"done"}`+"\n",
		string(data))
}

func TestSnapshot_OmitsEmptyFields(t *testing.T) {
	r := NewResult()
	r.Status = StatusAborted
	r.State = query.StateCompiled
	r.ErrorKind = query.KindEval

	data, err := NewSnapshot("failed", r).MarshalGolden()
	require.NoError(t, err)
	assert.Equal(t,
		`{"error_kind":"EvalError","file_written":false,"matches":0,"name":"failed","state":"compiled","status":"aborted"}`+"\n",
		string(data))
}

func TestSnapshot_IgnoresOutputBytes(t *testing.T) {
	a := NewResult()
	a.Status = StatusDone
	a.Output = []byte("<svg>a</svg>")
	b := NewResult()
	b.Status = StatusDone
	b.Output = []byte("<svg>bbbb</svg>")

	da, err := NewSnapshot("x", a).MarshalGolden()
	require.NoError(t, err)
	db, err := NewSnapshot("x", b).MarshalGolden()
	require.NoError(t, err)
	assert.Equal(t, da, db)
}

func TestRunWithGolden_HeadingRenders(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/heading_renders.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}
