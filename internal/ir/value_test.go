package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalIRValue(t *testing.T) {
	v, err := UnmarshalIRValue([]byte(`{"level":2,"body":"Intro","tags":["a",true]}`))
	require.NoError(t, err)

	obj, ok := v.(IRObject)
	require.True(t, ok)
	assert.Equal(t, IRInt(2), obj["level"])
	assert.Equal(t, IRString("Intro"), obj["body"])
	assert.Equal(t, IRArray{IRString("a"), IRBool(true)}, obj["tags"])
}

func TestUnmarshalIRValueRejectsFloats(t *testing.T) {
	_, err := UnmarshalIRValue([]byte(`{"x":1.5}`))
	assert.ErrorContains(t, err, "floats")
}

func TestIRObjectJSONRoundTripThroughStruct(t *testing.T) {
	type holder struct {
		Fields IRObject `json:"fields"`
	}
	in := holder{Fields: IRObject{"b": IRInt(1), "a": IRString("x")}}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, `{"fields":{"a":"x","b":1}}`, string(data))

	var out holder
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, Equal(in.Fields, out.Fields))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(IRInt(1), IRInt(1)))
	assert.False(t, Equal(IRInt(1), IRString("1")))
	assert.True(t, Equal(IRArray{IRInt(1)}, IRArray{IRInt(1)}))
	assert.False(t, Equal(IRArray{IRInt(1)}, IRArray{IRInt(1), IRInt(2)}))
	assert.True(t, Equal(IRObject{"a": IRBool(true)}, IRObject{"a": IRBool(true)}))
	assert.False(t, Equal(IRObject{"a": IRBool(true)}, IRObject{"b": IRBool(true)}))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "int", TypeName(IRInt(12)))
	assert.Equal(t, "object", TypeName(IRObject{}))
	assert.Equal(t, "null", TypeName(IRNull{}))
}

func TestClone(t *testing.T) {
	src := IRObject{"a": IRInt(1)}
	dst := src.Clone()
	dst["b"] = IRInt(2)
	assert.Len(t, src, 1)
	assert.Len(t, dst, 2)
}
