package workcopy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetSparsePatternsNarrowsRemovesOutOfScopeFiles(t *testing.T) {
	ws, fs, s := newWorkspace(t)
	ctx := context.Background()

	tree := writeTree(t, s, map[string]string{
		"keep/a":     "kept",
		"drop/b":     "dropped",
		"drop/sub/c": "dropped too",
	})

	mut, err := ws.StartMutation(ctx)
	require.NoError(t, err)
	_, err = mut.Checkout(ctx, tree)
	require.NoError(t, err)
	require.NoError(t, mut.Finish(ctx))

	mut2, err := ws.StartMutation(ctx)
	require.NoError(t, err)
	stats, err := mut2.SetSparsePatterns(ctx, []string{"keep"})
	require.NoError(t, err)
	require.Equal(t, 0, stats.Added)
	require.Equal(t, 0, stats.Updated)
	require.Equal(t, 3, stats.Removed)
	require.NoError(t, mut2.Finish(ctx))

	require.True(t, fileExists(fs, "keep/a"))
	require.False(t, fileExists(fs, "drop/b"))
	require.False(t, fileExists(fs, "drop/sub/c"))
	require.False(t, fileExists(fs, "drop/sub"))
	require.False(t, fileExists(fs, "drop"))
}

func TestSetSparsePatternsWideningRestoresFiles(t *testing.T) {
	ws, fs, s := newWorkspace(t)
	ctx := context.Background()

	tree := writeTree(t, s, map[string]string{
		"keep/a": "kept",
		"drop/b": "dropped",
	})

	mut, err := ws.StartMutation(ctx)
	require.NoError(t, err)
	_, err = mut.SetSparsePatterns(ctx, []string{"keep"})
	require.NoError(t, err)
	_, err = mut.Checkout(ctx, tree)
	require.NoError(t, err)
	require.NoError(t, mut.Finish(ctx))

	require.True(t, fileExists(fs, "keep/a"))
	require.False(t, fileExists(fs, "drop/b"))

	mut2, err := ws.StartMutation(ctx)
	require.NoError(t, err)
	stats, err := mut2.SetSparsePatterns(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Added)
	require.NoError(t, mut2.Finish(ctx))

	require.True(t, fileExists(fs, "drop/b"))
}
