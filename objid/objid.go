// Package objid defines the content-addressed object identifier shared by
// the file-state index, the tree-state store, and the object store (spec
// §3, §6). Hashing uses sha1cd, the same collision-detecting SHA-1
// implementation go-git uses for its own object hashes.
package objid

import (
	"encoding/hex"

	"github.com/pjbgf/sha1cd"
)

// Size is the length in bytes of an ID.
const Size = 20

// ID is a content-addressed object identifier.
type ID [Size]byte

// Zero is the identifier of no object.
var Zero ID

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool {
	return id == Zero
}

// String renders id as lowercase hex.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// FromHex parses a hex-encoded ID.
func FromHex(s string) (ID, error) {
	var id ID
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, err
	}
	if len(b) != Size {
		return id, errInvalidLength(len(b))
	}
	copy(id[:], b)
	return id, nil
}

type errInvalidLength int

func (e errInvalidLength) Error() string {
	return "objid: invalid length"
}

// Of computes the content id of data, the way the object store hashes blob,
// tree, and conflict payloads before writing them.
func Of(kind string, data []byte) ID {
	h := sha1cd.New()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write(data)

	var id ID
	copy(id[:], h.Sum(nil))
	return id
}

// Compare orders two IDs byte-wise.
func Compare(a, b ID) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
