package workcopy

import (
	"errors"
	"fmt"

	"github.com/jjgo/workcopy/path"
	"github.com/jjgo/workcopy/treestate"
)

// ErrInvalidPath is returned when a path cannot be resolved under the
// workspace root (see checkNoEscape) or collides with the reserved ".git"
// entry.
type ErrInvalidPath struct {
	Path   path.RepoPath
	Reason string
}

func (e *ErrInvalidPath) Error() string {
	return fmt.Sprintf("workcopy: invalid path %q: %s", e.Path.String(), e.Reason)
}

// ErrUnsupportedKind is returned when the host filesystem fails to
// materialize a Kind (e.g. creating a symlink fails while core.symlinks is
// enabled). A filesystem without symlink support, or core.symlinks set to
// false, gets a plain file holding the link target instead of this error.
type ErrUnsupportedKind struct {
	Path path.RepoPath
	Tag  string
}

func (e *ErrUnsupportedKind) Error() string {
	return fmt.Sprintf("workcopy: %s cannot be materialized at %q on this filesystem", e.Tag, e.Path.String())
}

// ErrMutationInProgress is returned by StartMutation when the calling
// process already has an in-flight Mutation on this *Workspace value (spec
// §5: at most one at a time). A separate Workspace value over the same
// tree-state file — in this process or another — is instead rejected by
// the file lock as ErrLockContended.
var ErrMutationInProgress = errors.New("workcopy: a mutation is already in progress")

// ErrLockContended is returned by StartMutation when another writer
// already holds the workspace lock (spec §7 LockContended); callers may
// retry. It is the same sentinel treestate.Acquire returns, re-exported so
// callers can use errors.Is against the root package alone.
var ErrLockContended = treestate.ErrLocked

// ErrMutationFinished is returned when Finish or Discard is called twice,
// or any operation is attempted, on an already-released Mutation.
var ErrMutationFinished = errors.New("workcopy: mutation already finished")
