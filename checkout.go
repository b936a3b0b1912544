package workcopy

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	billy "github.com/go-git/go-billy/v5"

	"github.com/jjgo/workcopy/filemode"
	"github.com/jjgo/workcopy/filestate"
	"github.com/jjgo/workcopy/internal/iocopy"
	"github.com/jjgo/workcopy/objid"
	"github.com/jjgo/workcopy/path"
	"github.com/jjgo/workcopy/store"
)

// symlinker is implemented by go-billy filesystems that can materialize
// real symbolic links (memfs and osfs both do).
type symlinker interface {
	Symlink(target, link string) error
}

// Checkout reconciles the working directory with treeID: every path
// within the mutation's current sparse scope is brought in line with
// treeID's content, and CheckoutStats reports how many paths were added,
// removed, or updated (spec §4.4).
func (m *Mutation) Checkout(ctx context.Context, treeID objid.ID) (CheckoutStats, error) {
	if m.finished {
		return CheckoutStats{}, ErrMutationFinished
	}

	s := m.ws.store
	after, err := store.Flatten(ctx, s, treeID)
	if err != nil {
		return CheckoutStats{}, err
	}
	after = filterSparse(after, m.state.SparsePatterns)

	before := indexToFlat(m.state.Index)

	changes, err := diffFlat(before, after)
	if err != nil {
		return CheckoutStats{}, err
	}

	var stats CheckoutStats
	for _, ch := range changes {
		if err := m.applyCheckoutChange(ctx, ch); err != nil {
			return stats, err
		}
		stats.record(ch.kind)
	}
	m.cleanupEmptyDirs(changes)

	m.state.TreeID = treeID
	return stats, nil
}

// cleanupEmptyDirs removes ancestor directories of every removed path that
// are left empty by the removal, working deepest-first so a grandparent is
// only considered once its own child directory has already been dropped
// (spec §4.4 step 3: "if ancestor directories become empty and are not
// roots, remove them (bottom-up)"). A directory that still contains
// entries — tracked or merely ignored — is left alone, since ReadDir on it
// comes back non-empty.
func (m *Mutation) cleanupEmptyDirs(changes []change) {
	fs := m.ws.fs

	seen := map[string]struct{}{}
	var dirs []path.RepoPath
	for _, ch := range changes {
		if ch.kind != changeRemoved {
			continue
		}
		for parent, ok := ch.path.Parent(); ok && !parent.IsRoot(); parent, ok = parent.Parent() {
			key := parent.String()
			if _, dup := seen[key]; dup {
				break
			}
			seen[key] = struct{}{}
			dirs = append(dirs, parent)
		}
	}

	sort.Slice(dirs, func(i, j int) bool {
		return len(dirs[i].Components()) > len(dirs[j].Components())
	})
	for _, d := range dirs {
		entries, err := fs.ReadDir(d.String())
		if err != nil || len(entries) != 0 {
			continue
		}
		_ = fs.Remove(d.String())
	}
}

func (m *Mutation) applyCheckoutChange(ctx context.Context, ch change) error {
	fs := m.ws.fs
	name := ch.path.String()

	if err := checkNoEscape(fs, ch.path); err != nil {
		return err
	}
	if ch.path.CollidesWithDotGit() {
		return &ErrInvalidPath{Path: ch.path, Reason: "collides with reserved .git entry"}
	}

	switch ch.kind {
	case changeRemoved:
		if err := fs.Remove(name); err != nil && !os.IsNotExist(err) {
			return err
		}
		m.state.Index.Remove(ch.path)
		return nil

	case changeModified:
		if !ch.old.SameContent(ch.new) || ch.old.Tag != ch.new.Tag {
			if err := fs.Remove(name); err != nil && !os.IsNotExist(err) {
				return err
			}
		}
		fallthrough
	case changeAdded:
		st, err := m.materialize(ctx, ch.path, ch.new)
		if err != nil {
			return err
		}
		m.state.Index.Insert(ch.path, st)
		return nil
	}
	return nil
}

// materialize writes kind's content to path on the working filesystem and
// returns the FileState the snapshot engine should trust until the next
// write.
func (m *Mutation) materialize(ctx context.Context, p path.RepoPath, kind filemode.Kind) (filestate.State, error) {
	fs := m.ws.fs
	name := p.String()

	if parent, ok := p.Parent(); ok && !parent.IsRoot() {
		if err := fs.MkdirAll(parent.String(), 0o755); err != nil {
			return filestate.State{}, err
		}
	}

	switch kind.Tag {
	case filemode.Normal:
		return m.materializeNormal(ctx, p, kind)
	case filemode.Symlink:
		return m.materializeSymlink(ctx, p, kind)
	case filemode.Conflict:
		return m.materializeConflict(ctx, p, kind)
	case filemode.GitSubmodule:
		// never materialized on disk (spec §3 GitSubmodule).
		return filestate.State{Kind: kind}, nil
	default:
		return filestate.State{}, fmt.Errorf("workcopy: unknown kind tag %v at %q", kind.Tag, name)
	}
}

func (m *Mutation) materializeNormal(ctx context.Context, p path.RepoPath, kind filemode.Kind) (filestate.State, error) {
	fs := m.ws.fs
	name := p.String()

	mode, err := kind.ToOSFileMode()
	if err != nil {
		return filestate.State{}, err
	}

	rc, err := m.ws.store.ReadBlob(ctx, kind.ObjectID)
	if err != nil {
		return filestate.State{}, err
	}
	defer rc.Close()

	f, err := fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return filestate.State{}, err
	}
	n, err := iocopy.Copy(f, rc)
	closeErr := f.Close()
	if err != nil {
		return filestate.State{}, err
	}
	if closeErr != nil {
		return filestate.State{}, closeErr
	}

	return m.statState(fs, name, kind, uint64(n))
}

func (m *Mutation) materializeSymlink(ctx context.Context, p path.RepoPath, kind filemode.Kind) (filestate.State, error) {
	fs := m.ws.fs
	name := p.String()

	target, err := m.ws.store.ReadSymlink(ctx, kind.ObjectID)
	if err != nil {
		return filestate.State{}, err
	}

	sym, ok := fs.(symlinker)
	if !ok || !m.ws.config.Core.Symlinks {
		f, err := fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return filestate.State{}, err
		}
		_, werr := io.WriteString(f, target)
		cerr := f.Close()
		if werr != nil {
			return filestate.State{}, werr
		}
		if cerr != nil {
			return filestate.State{}, cerr
		}
		return m.statState(fs, name, kind, uint64(len(target)))
	}

	_ = fs.Remove(name)
	if err := sym.Symlink(target, name); err != nil {
		return filestate.State{}, &ErrUnsupportedKind{Path: p, Tag: "symlink"}
	}
	return m.statState(fs, name, kind, uint64(len(target)))
}

func (m *Mutation) materializeConflict(ctx context.Context, p path.RepoPath, kind filemode.Kind) (filestate.State, error) {
	fs := m.ws.fs
	name := p.String()

	c, err := m.ws.store.ReadConflict(ctx, kind.ConflictID)
	if err != nil {
		return filestate.State{}, err
	}
	body := renderConflictMarker(c)

	f, err := fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return filestate.State{}, err
	}
	_, werr := io.WriteString(f, body)
	cerr := f.Close()
	if werr != nil {
		return filestate.State{}, werr
	}
	if cerr != nil {
		return filestate.State{}, cerr
	}
	return m.statState(fs, name, kind, uint64(len(body)))
}

func (m *Mutation) statState(fs billy.Filesystem, name string, kind filemode.Kind, fallbackSize uint64) (filestate.State, error) {
	fi, err := fs.Stat(name)
	if err != nil {
		return filestate.State{
			Kind: kind,
			Size: fallbackSize,
		}, nil
	}
	return filestate.State{
		Kind:  kind,
		Size:  uint64(fi.Size()),
		MTime: fi.ModTime(),
	}, nil
}

// renderConflictMarker formats a Conflict as human-editable text, the way
// a merge tool leaves markers for a user to resolve by hand.
func renderConflictMarker(c store.Conflict) string {
	out := "<<<<<<< removed\n"
	for _, k := range c.Removes {
		out += fmt.Sprintf("- %s %s\n", k.Tag, k.ObjectID)
	}
	out += "=======\n"
	for _, k := range c.Adds {
		out += fmt.Sprintf("+ %s %s\n", k.Tag, k.ObjectID)
	}
	out += ">>>>>>> added\n"
	return out
}

func indexToFlat(idx *filestate.Index) map[string]filemode.Kind {
	flat := map[string]filemode.Kind{}
	for _, e := range idx.Iter() {
		flat[e.Path.String()] = e.State.Kind
	}
	return flat
}

func filterSparse(flat map[string]filemode.Kind, patterns []string) map[string]filemode.Kind {
	if len(patterns) == 0 {
		return flat
	}

	prefixes := make([]path.RepoPath, 0, len(patterns))
	for _, p := range patterns {
		rp, err := path.Parse(p)
		if err != nil {
			continue
		}
		prefixes = append(prefixes, rp)
	}

	out := map[string]filemode.Kind{}
	for name, kind := range flat {
		rp, err := path.Parse(name)
		if err != nil {
			continue
		}
		for _, pre := range prefixes {
			if pre.IsAncestorOf(rp) {
				out[name] = kind
				break
			}
		}
	}
	return out
}
