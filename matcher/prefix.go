package matcher

import "github.com/jjgo/workcopy/path"

// Prefix matches every path that is a descendant of, or equal to, one of a
// set of repository-path prefixes. The root prefix matches everything.
type Prefix struct {
	prefixes []path.RepoPath
}

// NewPrefix builds a Prefix matcher over the given prefixes.
func NewPrefix(prefixes []path.RepoPath) *Prefix {
	cp := make([]path.RepoPath, len(prefixes))
	copy(cp, prefixes)
	return &Prefix{prefixes: cp}
}

// Prefixes returns the configured prefix list.
func (m *Prefix) Prefixes() []path.RepoPath {
	return m.prefixes
}

// Matches reports whether some configured prefix is an ancestor of, or
// equal to, file.
func (m *Prefix) Matches(file path.RepoPath) bool {
	for _, p := range m.prefixes {
		if p.IsAncestorOf(file) {
			return true
		}
	}
	return false
}

// Visit descends without further checks once dir itself falls under a
// prefix (the outermost matching prefix wins); otherwise it returns the
// explicit components leading toward the remaining, not-yet-matched
// prefixes. A prefix that is a direct child of dir is listed as both a
// directory and a file entry, since the prefix itself may name a file
// rather than a directory.
func (m *Prefix) Visit(dir path.RepoPath) Visit {
	if m.Matches(dir) {
		return AllRecursively
	}

	dirDepth := len(dir.Components())
	dirs := map[string]struct{}{}
	files := map[string]struct{}{}

	for _, pre := range m.prefixes {
		preComps := pre.Components()
		if len(preComps) <= dirDepth || !dir.IsAncestorOf(pre) {
			continue
		}

		next := preComps[dirDepth]
		dirs[next] = struct{}{}
		if len(preComps) == dirDepth+1 {
			files[next] = struct{}{}
		}
	}

	return Some(NameSet{Names: dirs}, NameSet{Names: files})
}
