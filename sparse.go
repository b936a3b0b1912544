package workcopy

import (
	"context"
	"sort"

	"github.com/jjgo/workcopy/path"
	"github.com/jjgo/workcopy/store"
)

// SetSparsePatterns reconciles the working directory with a new sparse
// pattern set: paths that move from included to excluded are removed from
// disk and the index, paths that move from excluded to included are
// materialized from the current tree, and the new pattern list is
// recorded (spec §4.6). Paths whose inclusion is unchanged are left
// untouched either way.
func (m *Mutation) SetSparsePatterns(ctx context.Context, newPatterns []string) (CheckoutStats, error) {
	if m.finished {
		return CheckoutStats{}, ErrMutationFinished
	}

	oldMatcher := sparseMatcher(m.state.SparsePatterns)
	newMatcher := sparseMatcher(newPatterns)

	full, err := store.Flatten(ctx, m.ws.store, m.state.TreeID)
	if err != nil {
		return CheckoutStats{}, err
	}

	var changes []change
	for name, kind := range full {
		p, err := path.Parse(name)
		if err != nil {
			return CheckoutStats{}, err
		}

		wasIncluded := oldMatcher.Matches(p)
		isIncluded := newMatcher.Matches(p)
		switch {
		case wasIncluded && !isIncluded:
			changes = append(changes, change{path: p, kind: changeRemoved, old: kind})
		case !wasIncluded && isIncluded:
			changes = append(changes, change{path: p, kind: changeAdded, new: kind})
		}
	}
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].path.Less(changes[j].path)
	})

	var stats CheckoutStats
	for _, ch := range changes {
		if err := m.applyCheckoutChange(ctx, ch); err != nil {
			return stats, err
		}
		stats.record(ch.kind)
	}
	m.cleanupEmptyDirs(changes)

	m.state.SparsePatterns = append([]string(nil), newPatterns...)
	return stats, nil
}
