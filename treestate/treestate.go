// Package treestate implements the on-disk persisted record of a
// workspace's working-copy state (spec §4.2, §4.3): the tree id the
// working copy currently reflects, the active sparse patterns, and the
// per-path FileState index used to detect modifications without
// re-hashing content. Persistence follows git's own index file in shape —
// a fixed signature, a flat entry list, and a trailing checksum — encoded
// and decoded the way go-git's plumbing/format/index does it.
package treestate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jjgo/workcopy/filestate"
	"github.com/jjgo/workcopy/matcher"
	"github.com/jjgo/workcopy/objid"
	"github.com/jjgo/workcopy/path"
	"github.com/jjgo/workcopy/store"
)

// ErrStaleOperation names a save attempted against a TreeState that was
// not the one most recently loaded and locked. Save does not compare
// operation ids, and no function in this module returns this error.
var ErrStaleOperation = errors.New("treestate: stale operation, reload before saving")

// State is the full persisted working-copy record for one workspace.
type State struct {
	// TreeID is the tree the working copy currently reflects.
	TreeID objid.ID
	// OperationID identifies the mutation that last wrote this state,
	// letting a concurrent reader detect it observed a half-applied write
	// (spec §4.3 invariant: readers never observe a state between a
	// checkout step and its TreeState write).
	OperationID uuid.UUID
	// SparsePatterns are the workspace's active sparse-checkout prefixes;
	// empty means "everything is included" (spec §4.6).
	SparsePatterns []string
	// Index is the per-path FileState record set.
	Index *filestate.Index
	// WriteTime is when this state was durably persisted, the timestamp
	// FileState.MTime values are compared against for the racy check
	// (spec §3, filestate.IsRacy).
	WriteTime time.Time
}

// New returns an empty State rooted at the empty tree.
func New(emptyTreeID objid.ID) *State {
	return &State{
		TreeID:      emptyTreeID,
		OperationID: uuid.New(),
		Index:       filestate.NewIndex(),
	}
}

// Validate checks the invariants a loaded or about-to-be-saved State must
// hold (spec §4.3): a populated operation id and a non-nil index.
func (s *State) Validate() error {
	if s.OperationID == uuid.Nil {
		return errors.New("treestate: missing operation id")
	}
	if s.Index == nil {
		return errors.New("treestate: nil index")
	}
	return nil
}

// validateSparseCoverage reports a *TreeStateCorrupt error if the index
// contains a path the persisted sparse patterns no longer admit (spec §4.3:
// "On load, the engine validates ... every file_states entry is covered by
// sparse_patterns"). Empty SparsePatterns means everything is included, so
// every path trivially passes.
func (s *State) validateSparseCoverage() error {
	if len(s.SparsePatterns) == 0 {
		return nil
	}

	prefixes := make([]path.RepoPath, 0, len(s.SparsePatterns))
	for _, raw := range s.SparsePatterns {
		p, err := path.Parse(raw)
		if err != nil {
			return &TreeStateCorrupt{Reason: fmt.Sprintf("sparse pattern %q: %v", raw, err)}
		}
		prefixes = append(prefixes, p)
	}
	mt := matcher.NewPrefix(prefixes)

	for _, e := range s.Index.Iter() {
		if !mt.Matches(e.Path) {
			return &TreeStateCorrupt{Reason: fmt.Sprintf("indexed path %q is not covered by sparse_patterns", e.Path.String())}
		}
	}
	return nil
}

// ValidateTreeID confirms s.TreeID resolves in st, the object store the
// workspace is backed by (spec §7 TreeStateCorrupt: "tree_id resolves in
// the object store"). Decode cannot perform this check itself — decoding a
// tree-state file has no access to the store it refers to — so a caller
// that loads a State runs this once it also has a store.Store in hand.
func (s *State) ValidateTreeID(ctx context.Context, st store.Store) error {
	if s.TreeID == st.EmptyTreeID() {
		return nil
	}
	if _, err := st.GetTree(ctx, s.TreeID); err != nil {
		return &TreeStateCorrupt{Reason: fmt.Sprintf("tree_id %s does not resolve in the object store: %v", s.TreeID, err)}
	}
	return nil
}
