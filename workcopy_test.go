package workcopy_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/require"

	"github.com/jjgo/workcopy"
	"github.com/jjgo/workcopy/filemode"
	"github.com/jjgo/workcopy/objid"
	"github.com/jjgo/workcopy/path"
	"github.com/jjgo/workcopy/store"
)

func mustPath(t *testing.T, s string) path.RepoPath {
	t.Helper()
	p, err := path.Parse(s)
	require.NoError(t, err)
	return p
}

// newWorkspace returns an empty workspace over a fresh memfs and store.Memory.
func newWorkspace(t *testing.T) (*workcopy.Workspace, billy.Filesystem, *store.Memory) {
	t.Helper()
	fs := memfs.New()
	s := store.NewMemory()
	return workcopy.NewWorkspace(fs, s), fs, s
}

// writeTree builds a tree object in s from a flat map of repository path to
// file content, all as non-executable Normal entries.
func writeTree(t *testing.T, s *store.Memory, files map[string]string) objid.ID {
	t.Helper()
	ctx := context.Background()

	b, err := s.TreeBuilder(ctx, s.EmptyTreeID())
	require.NoError(t, err)

	for name, content := range files {
		id, err := s.WriteBlob(ctx, strings.NewReader(content))
		require.NoError(t, err)
		b.Set(mustPath(t, name), filemode.NewNormal(id, false))
	}

	id, err := b.WriteTree(ctx)
	require.NoError(t, err)
	return id
}

func readFile(t *testing.T, fs billy.Filesystem, name string) string {
	t.Helper()
	f, err := fs.Open(name)
	require.NoError(t, err)
	defer f.Close()

	var buf strings.Builder
	_, err = buf.ReadFrom(f)
	require.NoError(t, err)
	return buf.String()
}

func fileExists(fs billy.Filesystem, name string) bool {
	_, err := fs.Stat(name)
	return err == nil
}

// writeRaw simulates a direct user edit: content written straight to the
// working filesystem, bypassing the engine entirely.
func writeRaw(t *testing.T, fs billy.Filesystem, name, content string) {
	t.Helper()
	f, err := fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, f.Close())
}
