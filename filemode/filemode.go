// Package filemode implements FileKind / TreeValue, the closed set of
// per-path kinds the engine materializes on disk and records in trees
// (spec §3, §9 "tagged variants"). A Kind is a tagged union: callers switch
// exhaustively on Tag rather than relying on subtype polymorphism.
package filemode

import (
	"fmt"
	"os"

	"github.com/jjgo/workcopy/objid"
)

// Tag identifies which variant a Kind holds.
type Tag int8

const (
	// Normal is a regular file; Executable controls its POSIX execute bits.
	Normal Tag = iota
	// Symlink is a symbolic link whose target is stored as a blob-like object.
	Symlink
	// Conflict is an unresolved merge, materialized as a textual marker file.
	Conflict
	// Tree is a nested tree; never present in a flattened working-copy index.
	Tree
	// GitSubmodule is recorded but never materialized on disk.
	GitSubmodule
)

func (t Tag) String() string {
	switch t {
	case Normal:
		return "normal"
	case Symlink:
		return "symlink"
	case Conflict:
		return "conflict"
	case Tree:
		return "tree"
	case GitSubmodule:
		return "submodule"
	default:
		return fmt.Sprintf("Tag(%d)", int8(t))
	}
}

// Kind is a closed sum type over the five path kinds the engine knows
// about. Only the fields relevant to Tag are meaningful; zero Kind is an
// invalid, unused value (there is no "Missing" tag — absence is modeled by
// the path simply not appearing in an index or tree).
type Kind struct {
	Tag Tag

	// ObjectID is populated for Normal, Symlink, and Tree.
	ObjectID objid.ID
	// Executable is meaningful only for Normal.
	Executable bool
	// ConflictID is populated for Conflict.
	ConflictID objid.ID
	// CommitID is populated for GitSubmodule.
	CommitID objid.ID
}

// NewNormal builds a Normal Kind.
func NewNormal(id objid.ID, executable bool) Kind {
	return Kind{Tag: Normal, ObjectID: id, Executable: executable}
}

// NewSymlink builds a Symlink Kind.
func NewSymlink(id objid.ID) Kind {
	return Kind{Tag: Symlink, ObjectID: id}
}

// NewConflict builds a Conflict Kind.
func NewConflict(id objid.ID) Kind {
	return Kind{Tag: Conflict, ConflictID: id}
}

// NewTree builds a Tree Kind.
func NewTree(id objid.ID) Kind {
	return Kind{Tag: Tree, ObjectID: id}
}

// NewGitSubmodule builds a GitSubmodule Kind.
func NewGitSubmodule(id objid.ID) Kind {
	return Kind{Tag: GitSubmodule, CommitID: id}
}

// Equal reports whether two Kinds are identical, comparing only the fields
// meaningful for their shared Tag.
func (k Kind) Equal(o Kind) bool {
	if k.Tag != o.Tag {
		return false
	}
	switch k.Tag {
	case Normal:
		return k.ObjectID == o.ObjectID && k.Executable == o.Executable
	case Symlink, Tree:
		return k.ObjectID == o.ObjectID
	case Conflict:
		return k.ConflictID == o.ConflictID
	case GitSubmodule:
		return k.CommitID == o.CommitID
	default:
		return true
	}
}

// SameContent reports whether two Kinds reference the same underlying
// content, ignoring metadata-only differences such as the executable bit
// (used to detect "executable-bit-only" transitions, spec §4.4 step 3).
func (k Kind) SameContent(o Kind) bool {
	if k.Tag != o.Tag {
		return false
	}
	switch k.Tag {
	case Normal:
		return k.ObjectID == o.ObjectID
	case Symlink, Tree:
		return k.ObjectID == o.ObjectID
	case Conflict:
		return k.ConflictID == o.ConflictID
	case GitSubmodule:
		return k.CommitID == o.CommitID
	default:
		return true
	}
}

// ToOSFileMode returns the os.FileMode the engine should create the path
// with when materializing this Kind on a POSIX-like filesystem.
func (k Kind) ToOSFileMode() (os.FileMode, error) {
	switch k.Tag {
	case Normal:
		if k.Executable {
			return 0o755, nil
		}
		return 0o644, nil
	case Symlink:
		return os.ModeSymlink | 0o777, nil
	case Conflict:
		return 0o644, nil
	case Tree:
		return os.ModeDir | 0o755, nil
	case GitSubmodule:
		return os.ModeDir | 0o755, nil
	default:
		return 0, fmt.Errorf("filemode: unknown tag %v", k.Tag)
	}
}

// FromOSFileModeRegular classifies a regular (non-symlink, non-dir) file's
// os.FileMode as a Normal Kind carrying id, honoring the executable bit.
func FromOSFileModeRegular(mode os.FileMode, id objid.ID) Kind {
	return NewNormal(id, mode&0o111 != 0)
}
