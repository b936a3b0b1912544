package treestate

import "fmt"

// TreeStateCorrupt is returned when a loaded State fails one of the
// consistency checks a well-formed tree-state file must satisfy (spec §7):
// an indexed path falls outside the workspace's own sparse patterns, or
// tree_id does not resolve in the object store.
type TreeStateCorrupt struct {
	Reason string
}

func (e *TreeStateCorrupt) Error() string {
	return fmt.Sprintf("treestate: corrupt: %s", e.Reason)
}
