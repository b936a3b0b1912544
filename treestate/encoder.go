package treestate

import (
	"hash"
	"io"

	"github.com/pjbgf/sha1cd"

	"github.com/jjgo/workcopy/filestate"
	"github.com/jjgo/workcopy/utils/binary"
)

// Encoder writes a State to an output stream in the working-copy
// tree-state binary format.
type Encoder struct {
	w io.Writer
	h hash.Hash
}

// NewEncoder returns an Encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	h := sha1cd.New()
	return &Encoder{w: io.MultiWriter(w, h), h: h}
}

// Encode writes s, followed by the trailing checksum of everything
// written.
func (e *Encoder) Encode(s *State) error {
	if err := e.writeHeader(s); err != nil {
		return err
	}
	if err := e.writeSparsePatterns(s.SparsePatterns); err != nil {
		return err
	}
	if err := e.writeEntries(s.Index); err != nil {
		return err
	}

	_, err := e.w.Write(e.h.Sum(nil))
	return err
}

func (e *Encoder) writeHeader(s *State) error {
	if _, err := e.w.Write(signature[:]); err != nil {
		return err
	}
	if err := binary.WriteUint32(e.w, formatVersion); err != nil {
		return err
	}
	if _, err := e.w.Write(s.TreeID[:]); err != nil {
		return err
	}
	opID, err := s.OperationID.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := e.w.Write(opID); err != nil {
		return err
	}
	return binary.WriteUint64(e.w, uint64(s.WriteTime.UnixNano()))
}

func (e *Encoder) writeSparsePatterns(patterns []string) error {
	if err := binary.WriteUint32(e.w, uint32(len(patterns))); err != nil {
		return err
	}
	for _, p := range patterns {
		if err := writeString(e.w, p); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) writeEntries(idx *filestate.Index) error {
	entries := idx.Iter()
	if err := binary.WriteUint32(e.w, uint32(len(entries))); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := writeString(e.w, entry.Path.String()); err != nil {
			return err
		}
		if err := e.writeState(entry.State); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) writeState(st filestate.State) error {
	if err := binary.Write(e.w, uint8(st.Kind.Tag)); err != nil {
		return err
	}
	if _, err := e.w.Write(st.Kind.ObjectID[:]); err != nil {
		return err
	}
	if _, err := e.w.Write(st.Kind.ConflictID[:]); err != nil {
		return err
	}
	if _, err := e.w.Write(st.Kind.CommitID[:]); err != nil {
		return err
	}

	executable := uint8(0)
	if st.Kind.Executable {
		executable = 1
	}
	if err := binary.Write(e.w, executable); err != nil {
		return err
	}
	if err := binary.WriteUint64(e.w, st.Size); err != nil {
		return err
	}
	return binary.WriteUint64(e.w, uint64(st.MTime.UnixNano()))
}

func writeString(w io.Writer, s string) error {
	if err := binary.WriteUint32(w, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}
