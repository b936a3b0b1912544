package ignore

import "strings"

// ParseFile parses the body of one ignore file (typically a .gitignore)
// into the patterns it defines, each scoped to domain — the path
// components of the directory the file lives in, nil for a
// repository-root file.
func ParseFile(body string, domain []string) []Pattern {
	var patterns []Pattern
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, ParsePattern(line, domain))
	}
	return patterns
}

// Stack accumulates the cascading set of ignore-file patterns a directory
// walk builds up while descending: each directory's own patterns push
// onto the stack before its children are visited, and pop back off once
// the walk returns to the parent (spec §4.5 "ignore predicate consults
// every ignore file from the root down to the entry's directory").
type Stack struct {
	m *Matcher
}

// NewStack returns an empty Stack seeded with root, the patterns that
// apply repository-wide regardless of directory (e.g. configured global
// excludes).
func NewStack(root []Pattern) *Stack {
	return &Stack{m: NewMatcher(append([]Pattern(nil), root...))}
}

// Push appends patterns to the stack and returns a mark to later Pop back
// to.
func (s *Stack) Push(patterns []Pattern) int {
	mark := len(s.m.patterns)
	s.m.patterns = append(s.m.patterns, patterns...)
	return mark
}

// Pop truncates the stack back to a mark returned by Push.
func (s *Stack) Pop(mark int) {
	s.m.patterns = s.m.patterns[:mark]
}

// Match reports whether path is ignored given every pattern currently on
// the stack.
func (s *Stack) Match(path []string, isDir bool) bool {
	return s.m.Match(path, isDir)
}
