package store_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jjgo/workcopy/objid"
	"github.com/jjgo/workcopy/store"
)

// countingStore wraps a Memory and counts ReadBlob/GetTree calls, so tests
// can assert the Cache actually short-circuits the backing store.
type countingStore struct {
	*store.Memory
	treeReads int
	blobReads int
}

func (c *countingStore) GetTree(ctx context.Context, id objid.ID) (*store.Tree, error) {
	c.treeReads++
	return c.Memory.GetTree(ctx, id)
}

func (c *countingStore) ReadBlob(ctx context.Context, id objid.ID) (io.ReadCloser, error) {
	c.blobReads++
	return c.Memory.ReadBlob(ctx, id)
}

func TestCacheServesBlobsWithoutRepeatedBackingReads(t *testing.T) {
	ctx := context.Background()
	backing := &countingStore{Memory: store.NewMemory()}

	id, err := backing.WriteBlob(ctx, strings.NewReader("payload"))
	require.NoError(t, err)

	c, err := store.NewCache(backing, 8, 8)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		rc, err := c.ReadBlob(ctx, id)
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.Equal(t, "payload", string(data))
	}

	require.Equal(t, 1, backing.blobReads)
}

func TestCacheDisabledPassesThrough(t *testing.T) {
	ctx := context.Background()
	backing := &countingStore{Memory: store.NewMemory()}

	id, err := backing.WriteBlob(ctx, strings.NewReader("payload"))
	require.NoError(t, err)

	c, err := store.NewCache(backing, 0, 0)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		rc, err := c.ReadBlob(ctx, id)
		require.NoError(t, err)
		_, _ = io.ReadAll(rc)
	}

	require.Equal(t, 2, backing.blobReads)
}
