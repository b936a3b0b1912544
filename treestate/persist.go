package treestate

import (
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/google/uuid"
)

// Save encodes s and writes it to path, replacing any previous content
// atomically: the new content lands in a temp file first, which is synced
// (when the filesystem's file handle offers Sync) and then renamed over
// path, so a reader never observes a partially written file (spec §4.3
// "persistence is atomic").
func Save(fs billy.Filesystem, path string, s *State) error {
	if err := s.Validate(); err != nil {
		return err
	}

	tmp, err := fs.TempFile("", fmt.Sprintf(".treestate-%s", uuid.New()))
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := NewEncoder(tmp).Encode(s); err != nil {
		tmp.Close()
		_ = fs.Remove(tmpName)
		return err
	}
	if syncer, ok := tmp.(interface{ Sync() error }); ok {
		if err := syncer.Sync(); err != nil {
			tmp.Close()
			_ = fs.Remove(tmpName)
			return err
		}
	}
	if err := tmp.Close(); err != nil {
		_ = fs.Remove(tmpName)
		return err
	}

	if err := fs.Rename(tmpName, path); err != nil {
		_ = fs.Remove(tmpName)
		return err
	}
	return nil
}

// Load reads and decodes the State persisted at path.
func Load(fs billy.Filesystem, path string) (*State, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return NewDecoder(f).Decode()
}
