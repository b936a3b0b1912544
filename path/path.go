// Package path implements the repository-relative path model: an ordered
// sequence of path components rooted at a single, unique empty root.
//
// A RepoPath never implies filesystem existence; it is purely logical, and
// equality/ordering are defined component-wise over raw bytes so the same
// RepoPath sorts identically regardless of host platform.
package path

import (
	"fmt"
	"strings"
)

// RepoPath is an immutable, repository-relative path.
type RepoPath struct {
	components []string
}

// Root is the unique empty path that names the workspace root.
func Root() RepoPath {
	return RepoPath{}
}

// ErrEmptyComponent is returned when a path component is empty.
var ErrEmptyComponent = fmt.Errorf("path component is empty")

// ErrInvalidComponent is returned when a path component contains a path
// separator or a null byte.
type ErrInvalidComponent struct {
	Component string
}

func (e *ErrInvalidComponent) Error() string {
	return fmt.Sprintf("invalid path component %q", e.Component)
}

// FromComponents builds a RepoPath from already-split components, validating
// each one. The supplied slice is copied; the caller's slice may be reused.
func FromComponents(components []string) (RepoPath, error) {
	for _, c := range components {
		if c == "" {
			return RepoPath{}, ErrEmptyComponent
		}
		if strings.ContainsAny(c, "/\\") || strings.IndexByte(c, 0) >= 0 {
			return RepoPath{}, &ErrInvalidComponent{Component: c}
		}
		if c == "." || c == ".." {
			return RepoPath{}, &ErrInvalidComponent{Component: c}
		}
	}

	cp := make([]string, len(components))
	copy(cp, components)
	return RepoPath{components: cp}, nil
}

// Parse splits a slash-separated repository-relative string into a RepoPath.
// An empty string parses to Root.
func Parse(s string) (RepoPath, error) {
	if s == "" {
		return Root(), nil
	}
	return FromComponents(strings.Split(s, "/"))
}

// Components returns the ordered path components. The returned slice must
// not be mutated.
func (p RepoPath) Components() []string {
	return p.components
}

// IsRoot reports whether p names the workspace root.
func (p RepoPath) IsRoot() bool {
	return len(p.components) == 0
}

// Base returns the final component, or "" for the root.
func (p RepoPath) Base() string {
	if p.IsRoot() {
		return ""
	}
	return p.components[len(p.components)-1]
}

// Join appends a single component, returning the child path.
func (p RepoPath) Join(component string) (RepoPath, error) {
	return FromComponents(append(append([]string{}, p.components...), component))
}

// Parent returns the parent path and true, or (Root, false) if p is already
// the root.
func (p RepoPath) Parent() (RepoPath, bool) {
	if p.IsRoot() {
		return Root(), false
	}
	return RepoPath{components: p.components[:len(p.components)-1]}, true
}

// String renders the path using "/" as a separator; the root renders as "".
func (p RepoPath) String() string {
	return strings.Join(p.components, "/")
}

// Equal reports component-wise equality.
func (p RepoPath) Equal(o RepoPath) bool {
	return Compare(p, o) == 0
}

// Compare orders two RepoPaths component-wise, comparing each component as
// raw bytes; a path that is a strict prefix of another sorts first.
func Compare(a, b RepoPath) int {
	for i := 0; i < len(a.components) && i < len(b.components); i++ {
		if a.components[i] != b.components[i] {
			if a.components[i] < b.components[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a.components) < len(b.components):
		return -1
	case len(a.components) > len(b.components):
		return 1
	default:
		return 0
	}
}

// Less reports whether p sorts strictly before o.
func (p RepoPath) Less(o RepoPath) bool {
	return Compare(p, o) < 0
}

// IsAncestorOf reports whether p is a strict or non-strict ancestor of o,
// i.e. o is p itself or a descendant of p. The root is an ancestor of every
// path, including itself.
func (p RepoPath) IsAncestorOf(o RepoPath) bool {
	if len(p.components) > len(o.components) {
		return false
	}
	for i, c := range p.components {
		if o.components[i] != c {
			return false
		}
	}
	return true
}

// DotGit is the reserved first component. RepoPath itself accepts it (see
// CollidesWithDotGit); checkout rejects such paths with ErrInvalidPath and
// the snapshot walk skips them (spec §4.5.5, §7 InvalidPath).
const DotGit = ".git"

// CollidesWithDotGit reports whether p's first component is the reserved
// ".git" name.
func (p RepoPath) CollidesWithDotGit() bool {
	return len(p.components) > 0 && p.components[0] == DotGit
}
