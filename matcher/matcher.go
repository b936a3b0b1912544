// Package matcher implements the predicate the checkout and snapshot
// engines use to prune filesystem and tree traversals to a subset of
// repository paths (spec §4.1).
//
// Matcher is kept deliberately narrow — two methods, four concrete
// implementations below — rather than a plugin surface: callers needing a
// new matching strategy add a case here, they do not register one.
package matcher

import "github.com/jjgo/workcopy/path"

// Matcher decides which paths a traversal should visit.
type Matcher interface {
	// Matches reports whether file satisfies the predicate.
	Matches(file path.RepoPath) bool
	// Visit returns a pruning hint for descending into dir.
	Visit(dir path.RepoPath) Visit
}

// Kind tags a Visit value.
type Kind int

const (
	// KindNothing means the traversal must not descend into dir at all.
	KindNothing Kind = iota
	// KindAllRecursively means every descendant of dir is matched; the
	// traversal may stop consulting the matcher for this subtree.
	KindAllRecursively
	// KindSome means only the explicitly listed subdirectories and files
	// should be visited.
	KindSome
)

// NameSet selects a subset of a directory's immediate children, or all of
// them.
type NameSet struct {
	All   bool
	Names map[string]struct{}
}

// Contains reports whether name is selected by the set.
func (s NameSet) Contains(name string) bool {
	if s.All {
		return true
	}
	_, ok := s.Names[name]
	return ok
}

// Empty reports whether the set selects nothing.
func (s NameSet) Empty() bool {
	return !s.All && len(s.Names) == 0
}

// Visit is the pruning hint returned per directory by Matcher.Visit.
type Visit struct {
	Kind  Kind
	Dirs  NameSet
	Files NameSet
}

// AllRecursively is the Visit value meaning "descend everywhere below dir".
var AllRecursively = Visit{Kind: KindAllRecursively}

// NothingVisit is the Visit value meaning "skip dir entirely". Some{} with two
// empty NameSets is equivalent, but this constructor names the common case.
var NothingVisit = Visit{Kind: KindNothing}

// Some builds an explicit Visit; an empty Some is equivalent to Nothing.
func Some(dirs, files NameSet) Visit {
	if dirs.Empty() && files.Empty() {
		return NothingVisit
	}
	return Visit{Kind: KindSome, Dirs: dirs, Files: files}
}
