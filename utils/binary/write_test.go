package binary

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	expected := bytes.NewBuffer(nil)
	require.NoError(t, binary.Write(expected, binary.BigEndian, uint64(42)))
	require.NoError(t, binary.Write(expected, binary.BigEndian, uint8(1)))

	buf := bytes.NewBuffer(nil)
	require.NoError(t, Write(buf, uint64(42), uint8(1)))
	require.Equal(t, expected, buf)
}

func TestWriteUint32(t *testing.T) {
	expected := bytes.NewBuffer(nil)
	require.NoError(t, binary.Write(expected, binary.BigEndian, uint32(42)))

	buf := bytes.NewBuffer(nil)
	require.NoError(t, WriteUint32(buf, 42))
	require.Equal(t, expected, buf)
}

func TestWriteUint64(t *testing.T) {
	expected := bytes.NewBuffer(nil)
	require.NoError(t, binary.Write(expected, binary.BigEndian, uint64(1<<40)))

	buf := bytes.NewBuffer(nil)
	require.NoError(t, WriteUint64(buf, 1<<40))
	require.Equal(t, expected, buf)
}
