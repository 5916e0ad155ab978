package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/scribe/internal/ir"
)

// marshalArray converts an IRArray to canonical JSON TEXT for storage.
func marshalArray(what string, arr ir.IRArray) (string, error) {
	if arr == nil {
		arr = ir.IRArray{}
	}
	data, err := ir.MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", what, err)
	}
	return string(data), nil
}

// unmarshalArray parses canonical JSON TEXT to an IRArray.
// ir.IRArray.UnmarshalJSON keeps large integers exact.
func unmarshalArray(what, data string) (ir.IRArray, error) {
	if data == "" || data == "[]" {
		return ir.IRArray{}, nil
	}
	var arr ir.IRArray
	if err := json.Unmarshal([]byte(data), &arr); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", what, err)
	}
	return arr, nil
}
