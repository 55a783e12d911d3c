package memzero_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"airoi/internal/util/memzero"
)

func TestZero_ClearsAllBuffers(t *testing.T) {
	a := bytes.Repeat([]byte{0xAA}, 32)
	b := []byte{1, 2, 3}
	memzero.Zero(a, nil, b, []byte{})

	require.Equal(t, make([]byte, 32), a)
	require.Equal(t, []byte{0, 0, 0}, b)
}
