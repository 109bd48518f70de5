package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalDistinguishesAbsentNullAndValue(t *testing.T) {
	var payload struct {
		Name  Optional[string] `json:"name"`
		Value Optional[string] `json:"value"`
		Extra Optional[string] `json:"extra"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"name":"hello","value":null}`), &payload))

	assert.True(t, payload.Name.Present)
	assert.True(t, payload.Name.Valid)
	assert.Equal(t, "hello", payload.Name.Value)

	// Explicit null: the key arrived but carries no value.
	assert.True(t, payload.Value.Present)
	assert.False(t, payload.Value.Valid)

	// Absent key: untouched.
	assert.False(t, payload.Extra.Present)
	assert.False(t, payload.Extra.Valid)
}

func TestOptionalNonStringTypes(t *testing.T) {
	var payload struct {
		Count Optional[int]         `json:"count"`
		Raw   Optional[interface{}] `json:"raw"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"count":3,"raw":12.5}`), &payload))

	assert.True(t, payload.Count.Valid)
	assert.Equal(t, 3, payload.Count.Value)
	assert.Equal(t, 12.5, payload.Raw.Value)
}

func TestOptionalMarshal(t *testing.T) {
	present := Optional[string]{Present: true, Valid: true, Value: "x"}
	data, err := json.Marshal(present)
	require.NoError(t, err)
	assert.Equal(t, `"x"`, string(data))

	null := Optional[string]{Present: true}
	data, err = json.Marshal(null)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}
