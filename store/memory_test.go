package store_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jjgo/workcopy/filemode"
	"github.com/jjgo/workcopy/path"
	"github.com/jjgo/workcopy/store"
)

func mustPath(t *testing.T, s string) path.RepoPath {
	t.Helper()
	p, err := path.Parse(s)
	require.NoError(t, err)
	return p
}

func TestMemoryBlobRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	id, err := m.WriteBlob(ctx, strings.NewReader("hello"))
	require.NoError(t, err)

	rc, err := m.ReadBlob(ctx, id)
	require.NoError(t, err)
	defer rc.Close()

	var buf strings.Builder
	_, err = buf.ReadFrom(rc)
	require.NoError(t, err)
	require.Equal(t, "hello", buf.String())
}

func TestMemoryReadBlobMissing(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	_, err := m.ReadBlob(ctx, [20]byte{1})
	require.Error(t, err)
	var missing *store.ErrObjectMissing
	require.ErrorAs(t, err, &missing)
}

func TestMemoryTreeBuilderFlatEntries(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	blobID, err := m.WriteBlob(ctx, strings.NewReader("x"))
	require.NoError(t, err)

	b, err := m.TreeBuilder(ctx, m.EmptyTreeID())
	require.NoError(t, err)

	b.Set(mustPath(t, "a"), filemode.NewNormal(blobID, false))
	b.Set(mustPath(t, "dir/b"), filemode.NewNormal(blobID, true))
	b.Set(mustPath(t, "dir/sub/c"), filemode.NewNormal(blobID, false))

	rootID, err := b.WriteTree(ctx)
	require.NoError(t, err)

	flat, err := store.Flatten(ctx, m, rootID)
	require.NoError(t, err)
	require.Len(t, flat, 3)
	require.True(t, flat["a"].Equal(filemode.NewNormal(blobID, false)))
	require.True(t, flat["dir/b"].Equal(filemode.NewNormal(blobID, true)))
	require.True(t, flat["dir/sub/c"].Equal(filemode.NewNormal(blobID, false)))

	root, err := m.GetTree(ctx, rootID)
	require.NoError(t, err)
	require.Contains(t, root.Entries, "a")
	require.Contains(t, root.Entries, "dir")
	require.Equal(t, filemode.Tree, root.Entries["dir"].Tag)
}

func TestMemoryTreeBuilderSeedsFromBase(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	blobID, err := m.WriteBlob(ctx, strings.NewReader("x"))
	require.NoError(t, err)

	b1, err := m.TreeBuilder(ctx, m.EmptyTreeID())
	require.NoError(t, err)
	b1.Set(mustPath(t, "a"), filemode.NewNormal(blobID, false))
	b1.Set(mustPath(t, "b"), filemode.NewNormal(blobID, false))
	base, err := b1.WriteTree(ctx)
	require.NoError(t, err)

	b2, err := m.TreeBuilder(ctx, base)
	require.NoError(t, err)
	b2.Remove(mustPath(t, "a"))
	b2.Set(mustPath(t, "c"), filemode.NewNormal(blobID, false))
	next, err := b2.WriteTree(ctx)
	require.NoError(t, err)

	flat, err := store.Flatten(ctx, m, next)
	require.NoError(t, err)
	require.NotContains(t, flat, "a")
	require.Contains(t, flat, "b")
	require.Contains(t, flat, "c")
}

func TestMemoryTreeBuilderRemoveDirectory(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	blobID, err := m.WriteBlob(ctx, strings.NewReader("x"))
	require.NoError(t, err)

	b1, err := m.TreeBuilder(ctx, m.EmptyTreeID())
	require.NoError(t, err)
	b1.Set(mustPath(t, "dir/a"), filemode.NewNormal(blobID, false))
	b1.Set(mustPath(t, "dir/b"), filemode.NewNormal(blobID, false))
	b1.Set(mustPath(t, "other"), filemode.NewNormal(blobID, false))
	base, err := b1.WriteTree(ctx)
	require.NoError(t, err)

	b2, err := m.TreeBuilder(ctx, base)
	require.NoError(t, err)
	b2.Remove(mustPath(t, "dir"))
	next, err := b2.WriteTree(ctx)
	require.NoError(t, err)

	flat, err := store.Flatten(ctx, m, next)
	require.NoError(t, err)
	require.Len(t, flat, 1)
	require.Contains(t, flat, "other")
}

func TestMemoryConflictRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	blobID, err := m.WriteBlob(ctx, strings.NewReader("x"))
	require.NoError(t, err)

	c := store.Conflict{
		Removes: []filemode.Kind{filemode.NewNormal(blobID, false)},
		Adds:    []filemode.Kind{filemode.NewNormal(blobID, true), filemode.NewSymlink(blobID)},
	}
	id, err := m.WriteConflict(ctx, c)
	require.NoError(t, err)

	got, err := m.ReadConflict(ctx, id)
	require.NoError(t, err)
	require.Equal(t, c, got)
}

func TestMemoryEmptyTreeFlattensToNothing(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	flat, err := store.Flatten(ctx, m, m.EmptyTreeID())
	require.NoError(t, err)
	require.Empty(t, flat)
}
