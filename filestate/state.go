// Package filestate implements the per-path file-state record and the
// ordered index that maps repository paths to it (spec §3, §4.2).
package filestate

import (
	"time"

	"github.com/jjgo/workcopy/filemode"
)

// State is the per-file record the engine caches to detect modifications
// cheaply without re-hashing content (spec §3 FileState).
type State struct {
	Kind filemode.Kind
	Size uint64
	// MTime is the last-observed modification time of the on-disk entry.
	MTime time.Time
}

// IsRacy reports whether mtime, the current on-disk modification time,
// falls within the same tick as or after writeTime, the tree-state's own
// last-write timestamp — the condition under which content must be
// re-hashed rather than trusted (spec §3 racy-timestamp rule, §4.5).
func IsRacy(mtime, writeTime time.Time) bool {
	return !mtime.Before(writeTime)
}
