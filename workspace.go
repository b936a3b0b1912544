package workcopy

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/google/uuid"

	"github.com/jjgo/workcopy/ignore"
	"github.com/jjgo/workcopy/store"
	"github.com/jjgo/workcopy/treestate"
	"github.com/jjgo/workcopy/wsconfig"
)

func newOperationID() uuid.UUID {
	return uuid.New()
}

// TreeStatePath is the default location of a workspace's persisted
// tree-state file, relative to the working directory root.
const TreeStatePath = ".git/workcopy-state"

// Workspace ties a working directory (fs) to an object store and a
// single persisted tree-state file. It is safe to share across
// goroutines; StartMutation serializes writers (spec §5).
type Workspace struct {
	fs            billy.Filesystem
	store         store.Store
	config        wsconfig.Config
	treeStatePath string
	rootIgnore    []ignore.Pattern

	mu     sync.Mutex
	active bool
}

// Option configures a Workspace at construction time.
type Option func(*Workspace)

// WithConfig overrides the default wsconfig.Config.
func WithConfig(c wsconfig.Config) Option {
	return func(w *Workspace) { w.config = c }
}

// WithTreeStatePath overrides the default tree-state file location.
func WithTreeStatePath(p string) Option {
	return func(w *Workspace) { w.treeStatePath = p }
}

// WithRootIgnorePatterns seeds the ignore predicate with repository-wide
// patterns that apply regardless of directory (e.g. a configured global
// excludes file).
func WithRootIgnorePatterns(patterns []ignore.Pattern) Option {
	return func(w *Workspace) { w.rootIgnore = patterns }
}

// WithCache wraps the workspace's store in an LRU read-through store.Cache
// of the given per-kind size (spec §4.5: avoid re-reading blob bytes a
// checkout or snapshot just wrote). A size of 0 disables caching for that
// kind. If store.NewCache returns an error, the store is left unwrapped and
// the error is dropped; callers that don't need caching simply omit this
// option.
func WithCache(treeSize, blobSize int) Option {
	return func(w *Workspace) {
		c, err := store.NewCache(w.store, treeSize, blobSize)
		if err != nil {
			return
		}
		w.store = c
	}
}

// NewWorkspace returns a Workspace rooted at fs and backed by s.
func NewWorkspace(fs billy.Filesystem, s store.Store, opts ...Option) *Workspace {
	w := &Workspace{
		fs:            fs,
		store:         s,
		config:        wsconfig.Default(),
		treeStatePath: TreeStatePath,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Filesystem returns the workspace's working directory.
func (w *Workspace) Filesystem() billy.Filesystem {
	return w.fs
}

// Store returns the workspace's object store.
func (w *Workspace) Store() store.Store {
	return w.store
}

// currentState loads the persisted tree-state, or a fresh empty one if
// none has ever been written.
func (w *Workspace) currentState(ctx context.Context) (*treestate.State, error) {
	s, err := treestate.Load(w.fs, w.treeStatePath)
	if err == nil {
		if err := s.ValidateTreeID(ctx, w.store); err != nil {
			return nil, err
		}
		return s, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}
	return treestate.New(w.store.EmptyTreeID()), nil
}

// Mutation is an exclusively-held handle over a Workspace through which
// every write operation (Checkout, Snapshot, Reset, SetSparsePatterns) is
// performed. Exactly one may be live per workspace at a time (spec §5:
// "owned handle with release on drop"). Callers must call Finish or
// Discard exactly once.
type Mutation struct {
	ws       *Workspace
	lock     *treestate.Lock
	state    *treestate.State
	finished bool
}

// StartMutation acquires the workspace's exclusive lock and loads its
// current state, returning a handle through which Checkout, Snapshot,
// Reset, and SetSparsePatterns may be called. A second call against the
// same *Workspace value while the first Mutation is still live returns
// ErrMutationInProgress without touching the file lock; a second Workspace
// value over the same tree-state path instead fails at once in
// treestate.Acquire with ErrLockContended (it does not wait).
func (w *Workspace) StartMutation(ctx context.Context) (*Mutation, error) {
	w.mu.Lock()
	if w.active {
		w.mu.Unlock()
		return nil, ErrMutationInProgress
	}
	w.active = true
	w.mu.Unlock()

	lock, err := treestate.Acquire(w.fs, w.treeStatePath)
	if err != nil {
		w.mu.Lock()
		w.active = false
		w.mu.Unlock()
		return nil, err
	}

	state, err := w.currentState(ctx)
	if err != nil {
		_ = lock.Release()
		w.mu.Lock()
		w.active = false
		w.mu.Unlock()
		return nil, err
	}

	return &Mutation{ws: w, lock: lock, state: state}, nil
}

// State returns the mutation's in-memory working state. Callers must not
// retain it past Finish or Discard.
func (m *Mutation) State() *treestate.State {
	return m.state
}

// Finish persists the mutation's state and releases the workspace lock.
// After Finish, the Mutation must not be used again.
func (m *Mutation) Finish(ctx context.Context) error {
	if m.finished {
		return ErrMutationFinished
	}
	m.finished = true
	defer m.release()

	m.state.OperationID = newOperationID()
	m.state.WriteTime = time.Now()
	if err := treestate.Save(m.ws.fs, m.ws.treeStatePath, m.state); err != nil {
		return err
	}
	return nil
}

// Discard releases the workspace lock without persisting any changes
// made to m.State() (the on-disk filesystem changes already applied by
// Checkout/Snapshot calls are NOT rolled back — Discard only abandons the
// bookkeeping update, matching the "owned handle with release on drop"
// contract: callers that need all-or-nothing semantics must not touch the
// filesystem before they are sure they will Finish).
func (m *Mutation) Discard() error {
	if m.finished {
		return ErrMutationFinished
	}
	m.finished = true
	return m.release()
}

// release releases the underlying file lock and clears the workspace's
// in-process mutation guard, so a subsequent StartMutation on either this
// *Workspace value or a fresh one over the same path may proceed.
func (m *Mutation) release() error {
	err := m.lock.Release()
	m.ws.mu.Lock()
	m.ws.active = false
	m.ws.mu.Unlock()
	return err
}
