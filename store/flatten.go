package store

import (
	"context"
	"sort"

	"github.com/jjgo/workcopy/filemode"
	"github.com/jjgo/workcopy/objid"
	"github.com/jjgo/workcopy/path"
)

// Flatten recursively resolves every tree reached from root and returns a
// map from full repository-path string to the Kind recorded at that path.
// Tree-kind entries are expanded and do not themselves appear in the
// result, matching the flattened view the checkout and snapshot engines
// diff against (spec §4.4, §4.5).
func Flatten(ctx context.Context, s Store, root objid.ID) (map[string]filemode.Kind, error) {
	out := map[string]filemode.Kind{}
	if root == s.EmptyTreeID() {
		return out, nil
	}
	if err := flattenInto(ctx, s, path.Root(), root, out); err != nil {
		return nil, err
	}
	return out, nil
}

func flattenInto(ctx context.Context, s Store, prefix path.RepoPath, id objid.ID, out map[string]filemode.Kind) error {
	t, err := s.GetTree(ctx, id)
	if err != nil {
		return err
	}

	for name, kind := range t.Entries {
		p, err := prefix.Join(name)
		if err != nil {
			return err
		}
		if kind.Tag == filemode.Tree {
			if err := flattenInto(ctx, s, p, kind.ObjectID, out); err != nil {
				return err
			}
			continue
		}
		out[p.String()] = kind
	}
	return nil
}

// PathKind pairs a flattened repository path with the Kind recorded at it.
type PathKind struct {
	Path path.RepoPath
	Kind filemode.Kind
}

// FlattenPaths is Flatten, decoded back into RepoPath keys for callers that
// need to range in path order rather than by raw string.
func FlattenPaths(ctx context.Context, s Store, root objid.ID) ([]PathKind, error) {
	flat, err := Flatten(ctx, s, root)
	if err != nil {
		return nil, err
	}
	out := make([]PathKind, 0, len(flat))
	for k, v := range flat {
		p, err := path.Parse(k)
		if err != nil {
			return nil, err
		}
		out = append(out, PathKind{Path: p, Kind: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path.Less(out[j].Path) })
	return out, nil
}
