// Package store defines the object-store contract the working-copy engine
// consumes (spec §6) — tree/blob/symlink/conflict storage addressed by
// opaque IDs — and ships one concrete, in-memory implementation the
// engine's own tests link against.
package store

import (
	"context"
	"io"

	"github.com/jjgo/workcopy/filemode"
	"github.com/jjgo/workcopy/objid"
	"github.com/jjgo/workcopy/path"
)

// Tree is the immediate-children view of a tree object: component name to
// the Kind recorded for it. A Kind tagged filemode.Tree names a nested
// tree object that must be fetched with another GetTree call.
type Tree struct {
	Entries map[string]filemode.Kind
}

// Conflict is the content of an unresolved merge: N removed and M added
// tree values (spec §3 Conflict).
type Conflict struct {
	Removes []filemode.Kind
	Adds    []filemode.Kind
}

// Store is the object store the engine consumes. It never deletes objects
// and must be safe for concurrent readers and a single concurrent writer
// per workspace (spec §5).
type Store interface {
	// GetTree resolves a tree object by id.
	GetTree(ctx context.Context, id objid.ID) (*Tree, error)
	// GetCommit resolves a commit object to the tree id it points at.
	GetCommit(ctx context.Context, id objid.ID) (objid.ID, error)
	// ReadBlob opens the content of a blob object for reading.
	ReadBlob(ctx context.Context, id objid.ID) (io.ReadCloser, error)
	// WriteBlob ingests r as a new blob object and returns its id.
	WriteBlob(ctx context.Context, r io.Reader) (objid.ID, error)
	// ReadSymlink resolves a symlink object to its target text.
	ReadSymlink(ctx context.Context, id objid.ID) (string, error)
	// WriteSymlink ingests target as a new symlink object and returns its id.
	WriteSymlink(ctx context.Context, target string) (objid.ID, error)
	// ReadConflict resolves a conflict object.
	ReadConflict(ctx context.Context, id objid.ID) (Conflict, error)
	// WriteConflict ingests a conflict object and returns its id.
	WriteConflict(ctx context.Context, c Conflict) (objid.ID, error)
	// TreeBuilder returns an accumulator seeded from base (or empty, if
	// base is the empty tree id).
	TreeBuilder(ctx context.Context, base objid.ID) (TreeBuilder, error)
	// EmptyTreeID returns the id of the tree with no entries.
	EmptyTreeID() objid.ID
}

// TreeBuilder accumulates (path, Kind) sets over a base tree and writes a
// new, immutable tree object reflecting them (spec §6).
type TreeBuilder interface {
	// Set records p as having kind, overriding anything inherited from the
	// base tree.
	Set(p path.RepoPath, kind filemode.Kind)
	// Remove deletes p and any base-tree entry under it.
	Remove(p path.RepoPath)
	// WriteTree writes the accumulated tree, bottom-up, and returns the
	// id of its root.
	WriteTree(ctx context.Context) (objid.ID, error)
}

// ErrObjectMissing is returned when an id referenced by a tree is not in
// the store (spec §7).
type ErrObjectMissing struct {
	ID objid.ID
}

func (e *ErrObjectMissing) Error() string {
	return "store: object missing: " + e.ID.String()
}
