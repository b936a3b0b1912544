package treestate

import (
	"bytes"
	"errors"
	"fmt"
	"hash"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pjbgf/sha1cd"

	"github.com/jjgo/workcopy/filemode"
	"github.com/jjgo/workcopy/filestate"
	"github.com/jjgo/workcopy/objid"
	"github.com/jjgo/workcopy/path"
	"github.com/jjgo/workcopy/utils/binary"
)

// ErrMalformedSignature is returned when the file does not start with the
// expected tree-state signature.
var ErrMalformedSignature = errors.New("treestate: malformed signature")

// ErrUnsupportedVersion is returned when the file declares a format
// version this decoder does not understand.
var ErrUnsupportedVersion = errors.New("treestate: unsupported version")

// ErrInvalidChecksum is returned when the trailing checksum does not
// match the decoded content.
var ErrInvalidChecksum = errors.New("treestate: invalid checksum")

// Decoder reads a State from the working-copy tree-state binary format.
type Decoder struct {
	under io.Reader
	r     io.Reader
	h     hash.Hash
}

// NewDecoder returns a Decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	h := sha1cd.New()
	return &Decoder{under: r, r: io.TeeReader(r, h), h: h}
}

// Decode reads a full State from the input.
func (d *Decoder) Decode() (*State, error) {
	s := &State{Index: filestate.NewIndex()}

	if err := d.readHeader(s); err != nil {
		return nil, err
	}
	if err := d.readSparsePatterns(s); err != nil {
		return nil, err
	}
	if err := d.readEntries(s); err != nil {
		return nil, err
	}
	if err := d.verifyChecksum(); err != nil {
		return nil, err
	}
	if err := s.validateSparseCoverage(); err != nil {
		return nil, err
	}

	return s, nil
}

func (d *Decoder) readHeader(s *State) error {
	var sig [4]byte
	if _, err := io.ReadFull(d.r, sig[:]); err != nil {
		return err
	}
	if sig != signature {
		return ErrMalformedSignature
	}

	version, err := binary.ReadUint32(d.r)
	if err != nil {
		return err
	}
	if version != formatVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	if _, err := io.ReadFull(d.r, s.TreeID[:]); err != nil {
		return err
	}

	var opIDBytes [16]byte
	if _, err := io.ReadFull(d.r, opIDBytes[:]); err != nil {
		return err
	}
	opID, err := uuid.FromBytes(opIDBytes[:])
	if err != nil {
		return err
	}
	s.OperationID = opID

	nanos, err := binary.ReadUint64(d.r)
	if err != nil {
		return err
	}
	s.WriteTime = time.Unix(0, int64(nanos)).UTC()
	return nil
}

func (d *Decoder) readSparsePatterns(s *State) error {
	count, err := binary.ReadUint32(d.r)
	if err != nil {
		return err
	}
	s.SparsePatterns = make([]string, count)
	for i := range s.SparsePatterns {
		p, err := readString(d.r)
		if err != nil {
			return err
		}
		s.SparsePatterns[i] = p
	}
	return nil
}

func (d *Decoder) readEntries(s *State) error {
	count, err := binary.ReadUint32(d.r)
	if err != nil {
		return err
	}

	for i := uint32(0); i < count; i++ {
		name, err := readString(d.r)
		if err != nil {
			return err
		}
		p, err := path.Parse(name)
		if err != nil {
			return err
		}
		st, err := d.readState()
		if err != nil {
			return err
		}
		s.Index.Insert(p, st)
	}
	return nil
}

func (d *Decoder) readState() (filestate.State, error) {
	var tagByte uint8
	if err := binary.Read(d.r, &tagByte); err != nil {
		return filestate.State{}, err
	}

	var objectID, conflictID, commitID objid.ID
	if _, err := io.ReadFull(d.r, objectID[:]); err != nil {
		return filestate.State{}, err
	}
	if _, err := io.ReadFull(d.r, conflictID[:]); err != nil {
		return filestate.State{}, err
	}
	if _, err := io.ReadFull(d.r, commitID[:]); err != nil {
		return filestate.State{}, err
	}

	var executable uint8
	if err := binary.Read(d.r, &executable); err != nil {
		return filestate.State{}, err
	}

	size, err := binary.ReadUint64(d.r)
	if err != nil {
		return filestate.State{}, err
	}
	nanos, err := binary.ReadUint64(d.r)
	if err != nil {
		return filestate.State{}, err
	}

	kind := filemode.Kind{
		Tag:        filemode.Tag(tagByte),
		ObjectID:   objectID,
		ConflictID: conflictID,
		CommitID:   commitID,
		Executable: executable != 0,
	}

	return filestate.State{
		Kind:  kind,
		Size:  size,
		MTime: time.Unix(0, int64(nanos)).UTC(),
	}, nil
}

func (d *Decoder) verifyChecksum() error {
	sum := d.h.Sum(nil)

	var trailer [checksumSize]byte
	if _, err := io.ReadFull(d.under, trailer[:]); err != nil {
		return err
	}
	if !bytes.Equal(sum, trailer[:]) {
		return ErrInvalidChecksum
	}
	return nil
}

func readString(r io.Reader) (string, error) {
	n, err := binary.ReadUint32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
