package binary

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	require.NoError(t, binary.Write(buf, binary.BigEndian, uint64(42)))
	require.NoError(t, binary.Write(buf, binary.BigEndian, uint8(1)))

	var u64 uint64
	var u8 uint8
	require.NoError(t, Read(buf, &u64, &u8))
	require.Equal(t, uint64(42), u64)
	require.Equal(t, uint8(1), u8)
}

func TestReadUint32(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	require.NoError(t, binary.Write(buf, binary.BigEndian, uint32(1<<20)))

	got, err := ReadUint32(buf)
	require.NoError(t, err)
	require.Equal(t, uint32(1<<20), got)
}

func TestReadUint64(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	require.NoError(t, binary.Write(buf, binary.BigEndian, uint64(1<<40)))

	got, err := ReadUint64(buf)
	require.NoError(t, err)
	require.Equal(t, uint64(1<<40), got)
}

func TestReadUint32ShortReadReturnsError(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0, 1})
	_, err := ReadUint32(buf)
	require.Error(t, err)
}
