package workcopy

import (
	"sort"

	"github.com/jjgo/workcopy/filemode"
	"github.com/jjgo/workcopy/path"
)

// changeKind classifies one path's transition between two flattened tree
// views.
type changeKind int

const (
	changeAdded changeKind = iota
	changeRemoved
	changeModified
)

// change is one path's transition from an old Kind to a new one. Old is
// the zero Kind for changeAdded; New is the zero Kind for changeRemoved.
type change struct {
	path path.RepoPath
	kind changeKind
	old  filemode.Kind
	new  filemode.Kind
}

// diffFlat computes the set of changes from before to after, returned in
// one ascending path order (path.Compare) with additions, removals and
// modifications interleaved; removals are not moved ahead of additions.
func diffFlat(before, after map[string]filemode.Kind) ([]change, error) {
	var changes []change

	for name, newKind := range after {
		p, err := path.Parse(name)
		if err != nil {
			return nil, err
		}
		oldKind, existed := before[name]
		switch {
		case !existed:
			changes = append(changes, change{path: p, kind: changeAdded, new: newKind})
		case !oldKind.Equal(newKind):
			changes = append(changes, change{path: p, kind: changeModified, old: oldKind, new: newKind})
		}
	}

	for name, oldKind := range before {
		if _, still := after[name]; still {
			continue
		}
		p, err := path.Parse(name)
		if err != nil {
			return nil, err
		}
		changes = append(changes, change{path: p, kind: changeRemoved, old: oldKind})
	}

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].path.Less(changes[j].path)
	})
	return changes, nil
}
