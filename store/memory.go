package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/jjgo/workcopy/filemode"
	"github.com/jjgo/workcopy/objid"
	"github.com/jjgo/workcopy/path"
)

// Memory is an in-memory Store, adapted from go-git's storage/memory
// object map: every object kind gets its own map guarded by one mutex,
// content-addressed by objid.Of. It is the reference implementation the
// engine's own test suite links against; it is not meant for production
// use, which would back Store with a real content-addressed backend.
type Memory struct {
	mu        sync.RWMutex
	trees     map[objid.ID]*Tree
	blobs     map[objid.ID][]byte
	symlinks  map[objid.ID]string
	conflicts map[objid.ID]Conflict
	emptyTree objid.ID
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	m := &Memory{
		trees:     make(map[objid.ID]*Tree),
		blobs:     make(map[objid.ID][]byte),
		symlinks:  make(map[objid.ID]string),
		conflicts: make(map[objid.ID]Conflict),
	}
	m.emptyTree = m.putTree(&Tree{Entries: map[string]filemode.Kind{}})
	return m
}

func (m *Memory) EmptyTreeID() objid.ID {
	return m.emptyTree
}

func (m *Memory) GetTree(_ context.Context, id objid.ID) (*Tree, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.trees[id]
	if !ok {
		return nil, &ErrObjectMissing{ID: id}
	}
	return t, nil
}

// GetCommit is a minimal stand-in: the engine only ever needs the tree a
// commit points at, so Memory stores commits as a direct id-to-tree-id
// alias rather than a full commit object.
func (m *Memory) GetCommit(_ context.Context, id objid.ID) (objid.ID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if t, ok := m.trees[id]; ok {
		_ = t
		return id, nil
	}
	return objid.ID{}, &ErrObjectMissing{ID: id}
}

func (m *Memory) ReadBlob(_ context.Context, id objid.ID) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.blobs[id]
	if !ok {
		return nil, &ErrObjectMissing{ID: id}
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *Memory) WriteBlob(_ context.Context, r io.Reader) (objid.ID, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return objid.ID{}, err
	}

	id := objid.Of("blob", data)
	m.mu.Lock()
	m.blobs[id] = data
	m.mu.Unlock()
	return id, nil
}

func (m *Memory) ReadSymlink(_ context.Context, id objid.ID) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	target, ok := m.symlinks[id]
	if !ok {
		return "", &ErrObjectMissing{ID: id}
	}
	return target, nil
}

func (m *Memory) WriteSymlink(_ context.Context, target string) (objid.ID, error) {
	id := objid.Of("symlink", []byte(target))
	m.mu.Lock()
	m.symlinks[id] = target
	m.mu.Unlock()
	return id, nil
}

func (m *Memory) ReadConflict(_ context.Context, id objid.ID) (Conflict, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.conflicts[id]
	if !ok {
		return Conflict{}, &ErrObjectMissing{ID: id}
	}
	return c, nil
}

func (m *Memory) WriteConflict(_ context.Context, c Conflict) (objid.ID, error) {
	id := objid.Of("conflict", encodeConflict(c))
	m.mu.Lock()
	m.conflicts[id] = c
	m.mu.Unlock()
	return id, nil
}

func (m *Memory) putTree(t *Tree) objid.ID {
	id := objid.Of("tree", encodeTree(t))
	m.mu.Lock()
	m.trees[id] = t
	m.mu.Unlock()
	return id
}

func (m *Memory) TreeBuilder(ctx context.Context, base objid.ID) (TreeBuilder, error) {
	flat := map[string]filemode.Kind{}
	if base != (objid.ID{}) && base != m.emptyTree {
		f, err := Flatten(ctx, m, base)
		if err != nil {
			return nil, err
		}
		flat = f
	}

	return &memoryBuilder{store: m, flat: flat}, nil
}

type memoryBuilder struct {
	store *Memory
	flat  map[string]filemode.Kind
}

func (b *memoryBuilder) Set(p path.RepoPath, kind filemode.Kind) {
	b.flat[p.String()] = kind
}

func (b *memoryBuilder) Remove(p path.RepoPath) {
	for k := range b.flat {
		kp, err := path.Parse(k)
		if err != nil {
			continue
		}
		if p.IsAncestorOf(kp) {
			delete(b.flat, k)
		}
	}
}

func (b *memoryBuilder) WriteTree(ctx context.Context) (objid.ID, error) {
	return buildTree(b.store, "", b.flat)
}

// buildTree groups every flattened entry under prefix by its next path
// component and recursively writes subtrees bottom-up, matching the
// snapshot engine's "aggregate per-directory entries...bottom-up" step
// (spec §4.5 step 6).
func buildTree(m *Memory, prefix string, flat map[string]filemode.Kind) (objid.ID, error) {
	type group struct {
		kind     filemode.Kind
		isLeaf   bool
		children map[string]filemode.Kind
	}
	groups := map[string]*group{}

	for full, kind := range flat {
		rel := full
		if prefix != "" {
			if len(full) <= len(prefix)+1 || full[:len(prefix)+1] != prefix+"/" {
				continue
			}
			rel = full[len(prefix)+1:]
		}

		slash := indexByte(rel, '/')
		if slash < 0 {
			groups[rel] = &group{kind: kind, isLeaf: true}
			continue
		}

		name := rel[:slash]
		g, ok := groups[name]
		if !ok {
			g = &group{children: map[string]filemode.Kind{}}
			groups[name] = g
		}
		childFull := name
		if prefix != "" {
			childFull = prefix + "/" + name
		}
		g.children[joinPrefix(childFull, rel[slash+1:])] = kind
	}

	entries := map[string]filemode.Kind{}
	for name, g := range groups {
		if g.isLeaf {
			entries[name] = g.kind
			continue
		}

		childPrefix := name
		if prefix != "" {
			childPrefix = prefix + "/" + name
		}
		sub, err := buildTree(m, childPrefix, flattenGroup(childPrefix, g.children))
		if err != nil {
			return objid.ID{}, err
		}
		entries[name] = filemode.NewTree(sub)
	}

	return m.putTree(&Tree{Entries: entries}), nil
}

func flattenGroup(childPrefix string, rel map[string]filemode.Kind) map[string]filemode.Kind {
	out := make(map[string]filemode.Kind, len(rel))
	for k, v := range rel {
		out[k] = v
	}
	return out
}

func joinPrefix(prefix, rest string) string {
	return prefix + "/" + rest
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func encodeTree(t *Tree) []byte {
	names := make([]string, 0, len(t.Entries))
	for n := range t.Entries {
		names = append(names, n)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	for _, n := range names {
		encodeKind(&buf, n, t.Entries[n])
	}
	return buf.Bytes()
}

func encodeKind(buf *bytes.Buffer, name string, k filemode.Kind) {
	fmt.Fprintf(buf, "%d %s %v %v %v %t\n", k.Tag, name, k.ObjectID, k.ConflictID, k.CommitID, k.Executable)
}

func encodeConflict(c Conflict) []byte {
	var buf bytes.Buffer
	for _, k := range c.Removes {
		buf.WriteString("- ")
		encodeKind(&buf, "", k)
	}
	for _, k := range c.Adds {
		buf.WriteString("+ ")
		encodeKind(&buf, "", k)
	}
	return buf.Bytes()
}
