package treestate

import (
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"
)

// Lock is an exclusive, advisory lock over one workspace's tree-state
// file, held for the duration of a mutation (spec §5 "at most one
// in-flight mutation per workspace"). It is implemented the simplest way
// a filesystem-backed lock can be: an exclusively-created sibling file,
// the same technique git itself uses for its own index.lock.
type Lock struct {
	fs   billy.Filesystem
	path string
}

// ErrLocked is returned by Acquire when another mutation already holds
// the lock.
var ErrLocked = fmt.Errorf("treestate: workspace is locked by another mutation")

// LockPath returns the sibling lock-file path for a tree-state file at
// path.
func LockPath(path string) string {
	return path + ".lock"
}

// Acquire creates the lock file for path, failing with ErrLocked if it
// already exists.
func Acquire(fs billy.Filesystem, path string) (*Lock, error) {
	lockPath := LockPath(path)

	f, err := fs.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, ErrLocked
		}
		return nil, err
	}
	defer f.Close()

	return &Lock{fs: fs, path: lockPath}, nil
}

// Release removes the lock file, allowing another mutation to proceed.
func (l *Lock) Release() error {
	return l.fs.Remove(l.path)
}
