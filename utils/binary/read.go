// Package binary implements the fixed-width, big-endian primitives
// treestate's Encoder and Decoder use to frame a tree-state file. The
// format never carries anything wider than a uint64 or narrower than a
// uint8 tag byte, so the package is scoped to exactly that.
package binary

import (
	"encoding/binary"
	"io"
)

// Read reads structured binary data from r into each of data, using
// BigEndian order, mirroring Write.
func Read(r io.Reader, data ...interface{}) error {
	for _, v := range data {
		if err := binary.Read(r, binary.BigEndian, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadUint32 reads a BigEndian-encoded uint32 from r, used by the decoder
// for the format version, string lengths, and entry/pattern counts.
func ReadUint32(r io.Reader) (uint32, error) {
	var v uint32
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// ReadUint64 reads a BigEndian-encoded uint64 from r, used by the decoder
// for file sizes and nanosecond timestamps.
func ReadUint64(r io.Reader) (uint64, error) {
	var v uint64
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return 0, err
	}
	return v, nil
}
