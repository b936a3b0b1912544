package store

import (
	"bytes"
	"context"
	"io"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jjgo/workcopy/objid"
)

// Cache wraps a Store with an LRU read-through cache for trees and blobs,
// the two object kinds read back most often: trees resolved while
// flattening, and blob content read while materializing files on
// checkout. Writes (including every blob a snapshot ingests) always go
// straight to the backing Store and do not populate the cache. Grounded on the read-cache
// layering go-git's cache.Object applies in front of plumbing storers.
type Cache struct {
	backing Store
	trees   *lru.Cache[objid.ID, *Tree]
	blobs   *lru.Cache[objid.ID, []byte]
}

// NewCache wraps backing with an LRU of the given per-kind size. A size of
// 0 disables caching for that kind.
func NewCache(backing Store, treeSize, blobSize int) (*Cache, error) {
	c := &Cache{backing: backing}

	if treeSize > 0 {
		trees, err := lru.New[objid.ID, *Tree](treeSize)
		if err != nil {
			return nil, err
		}
		c.trees = trees
	}
	if blobSize > 0 {
		blobs, err := lru.New[objid.ID, []byte](blobSize)
		if err != nil {
			return nil, err
		}
		c.blobs = blobs
	}
	return c, nil
}

func (c *Cache) GetTree(ctx context.Context, id objid.ID) (*Tree, error) {
	if c.trees != nil {
		if t, ok := c.trees.Get(id); ok {
			return t, nil
		}
	}
	t, err := c.backing.GetTree(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.trees != nil {
		c.trees.Add(id, t)
	}
	return t, nil
}

func (c *Cache) GetCommit(ctx context.Context, id objid.ID) (objid.ID, error) {
	return c.backing.GetCommit(ctx, id)
}

func (c *Cache) ReadBlob(ctx context.Context, id objid.ID) (io.ReadCloser, error) {
	if c.blobs != nil {
		if b, ok := c.blobs.Get(id); ok {
			return io.NopCloser(bytes.NewReader(b)), nil
		}
	}

	rc, err := c.backing.ReadBlob(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.blobs == nil {
		return rc, nil
	}

	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	c.blobs.Add(id, data)
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (c *Cache) WriteBlob(ctx context.Context, r io.Reader) (objid.ID, error) {
	return c.backing.WriteBlob(ctx, r)
}

func (c *Cache) ReadSymlink(ctx context.Context, id objid.ID) (string, error) {
	return c.backing.ReadSymlink(ctx, id)
}

func (c *Cache) WriteSymlink(ctx context.Context, target string) (objid.ID, error) {
	return c.backing.WriteSymlink(ctx, target)
}

func (c *Cache) ReadConflict(ctx context.Context, id objid.ID) (Conflict, error) {
	return c.backing.ReadConflict(ctx, id)
}

func (c *Cache) WriteConflict(ctx context.Context, conflict Conflict) (objid.ID, error) {
	return c.backing.WriteConflict(ctx, conflict)
}

func (c *Cache) TreeBuilder(ctx context.Context, base objid.ID) (TreeBuilder, error) {
	return c.backing.TreeBuilder(ctx, base)
}

func (c *Cache) EmptyTreeID() objid.ID {
	return c.backing.EmptyTreeID()
}
