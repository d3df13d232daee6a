package iojson

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer

	err := WriteWith(&out, &errOut, map[string]string{"id": "fg-1"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"id": "fg-1"`)
	assert.Empty(t, errOut.String())
}

func TestWriteWithMarshalFailure(t *testing.T) {
	var out, errOut bytes.Buffer

	// channels cannot marshal
	err := WriteWith(&out, &errOut, make(chan int))
	require.NoError(t, err)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "json_error")
}

func TestWriteLine(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, WriteLine(&out, map[string]int{"n": 1}))
	assert.Equal(t, "{\"n\":1}\n", out.String())
}
