package filestate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jjgo/workcopy/filemode"
	"github.com/jjgo/workcopy/filestate"
	"github.com/jjgo/workcopy/objid"
	"github.com/jjgo/workcopy/path"
)

func mustParse(t *testing.T, s string) path.RepoPath {
	t.Helper()
	p, err := path.Parse(s)
	require.NoError(t, err)
	return p
}

func TestIndexIterationIsSortedByPath(t *testing.T) {
	idx := filestate.NewIndex()
	id := objid.Of("blob", []byte("x"))
	state := filestate.State{Kind: filemode.NewNormal(id, false), Size: 1, MTime: time.Unix(1, 0)}

	for _, s := range []string{"zeta", "alpha", "dir/file", "beta"} {
		idx.Insert(mustParse(t, s), state)
	}

	var got []string
	for _, e := range idx.Iter() {
		got = append(got, e.Path.String())
	}
	require.Equal(t, []string{"alpha", "beta", "dir/file", "zeta"}, got)
}

func TestIndexGetInsertRemove(t *testing.T) {
	idx := filestate.NewIndex()
	p := mustParse(t, "a/b")
	id := objid.Of("blob", []byte("x"))
	state := filestate.State{Kind: filemode.NewNormal(id, false), Size: 1, MTime: time.Unix(1, 0)}

	_, ok := idx.Get(p)
	require.False(t, ok)

	idx.Insert(p, state)
	got, ok := idx.Get(p)
	require.True(t, ok)
	require.Equal(t, state.Size, got.Size)

	idx.Remove(p)
	_, ok = idx.Get(p)
	require.False(t, ok)
}

func TestIndexLenAndClear(t *testing.T) {
	idx := filestate.NewIndex()
	id := objid.Of("blob", []byte("x"))
	state := filestate.State{Kind: filemode.NewNormal(id, false)}
	idx.Insert(mustParse(t, "a"), state)
	idx.Insert(mustParse(t, "b"), state)
	require.Equal(t, 2, idx.Len())

	idx.Clear()
	require.Equal(t, 0, idx.Len())
}

func TestIsRacy(t *testing.T) {
	writeTime := time.Unix(100, 0)
	require.True(t, filestate.IsRacy(time.Unix(100, 0), writeTime))
	require.True(t, filestate.IsRacy(time.Unix(101, 0), writeTime))
	require.False(t, filestate.IsRacy(time.Unix(99, 0), writeTime))
}
