package workcopy

import (
	"context"

	"github.com/jjgo/workcopy/filestate"
	"github.com/jjgo/workcopy/objid"
	"github.com/jjgo/workcopy/store"
)

// Reset points the mutation's tracked tree id at treeID and reconciles the
// file-state index to match it, without touching the filesystem — the
// "reset" half of the mutating-operation pair spec §5 names alongside
// Checkout: Checkout makes the working directory agree with a tree and
// updates the index to match; Reset only updates the index and leaves
// whatever is already on disk alone. A path the target tree no longer
// names is dropped from the index; a path it newly names (or names with
// different content) is recorded with the target Kind and a zero size and
// mtime so the next
// Snapshot re-examines the real on-disk entry rather than trusting
// metadata that was never actually applied to it.
func (m *Mutation) Reset(ctx context.Context, treeID objid.ID) error {
	if m.finished {
		return ErrMutationFinished
	}

	after, err := store.Flatten(ctx, m.ws.store, treeID)
	if err != nil {
		return err
	}
	after = filterSparse(after, m.state.SparsePatterns)

	before := indexToFlat(m.state.Index)
	changes, err := diffFlat(before, after)
	if err != nil {
		return err
	}

	for _, ch := range changes {
		switch ch.kind {
		case changeRemoved:
			m.state.Index.Remove(ch.path)
		case changeAdded, changeModified:
			m.state.Index.Insert(ch.path, filestate.State{Kind: ch.new})
		}
	}

	m.state.TreeID = treeID
	return nil
}
