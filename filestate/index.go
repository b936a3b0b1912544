package filestate

import (
	"github.com/emirpasic/gods/maps/treemap"

	"github.com/jjgo/workcopy/path"
)

// Index is an ordered mapping from repository path to State. Iteration
// order is always sorted by path (spec §4.2), courtesy of gods' red-black
// tree map — the same ordered-map building block the rest of the pack
// reaches for instead of sorting a slice by hand after every mutation.
type Index struct {
	tree *treemap.Map
}

func pathComparator(a, b interface{}) int {
	return path.Compare(a.(path.RepoPath), b.(path.RepoPath))
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{tree: treemap.NewWith(pathComparator)}
}

// Get returns the state recorded for p, if any.
func (idx *Index) Get(p path.RepoPath) (State, bool) {
	v, found := idx.tree.Get(p)
	if !found {
		return State{}, false
	}
	return v.(State), true
}

// Insert records or replaces the state for p.
func (idx *Index) Insert(p path.RepoPath, s State) {
	idx.tree.Put(p, s)
}

// Remove deletes any recorded state for p.
func (idx *Index) Remove(p path.RepoPath) {
	idx.tree.Remove(p)
}

// Len returns the number of recorded paths.
func (idx *Index) Len() int {
	return idx.tree.Size()
}

// Clear removes every recorded path.
func (idx *Index) Clear() {
	idx.tree.Clear()
}

// Entry pairs a path with its state, returned by iteration.
type Entry struct {
	Path  path.RepoPath
	State State
}

// Iter returns every (path, state) pair in sorted-path order.
func (idx *Index) Iter() []Entry {
	keys := idx.tree.Keys()
	entries := make([]Entry, len(keys))
	for i, k := range keys {
		v, _ := idx.tree.Get(k)
		entries[i] = Entry{Path: k.(path.RepoPath), State: v.(State)}
	}
	return entries
}

// Clone returns a deep-enough copy safe to mutate independently of idx.
func (idx *Index) Clone() *Index {
	c := NewIndex()
	for _, e := range idx.Iter() {
		c.Insert(e.Path, e.State)
	}
	return c
}
