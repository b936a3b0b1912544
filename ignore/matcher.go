package ignore

// Matcher combines an ordered set of patterns the way a stack of
// .gitignore files does: later patterns override earlier ones, and the
// last pattern that produces a non-NoMatch result decides the outcome.
type Matcher struct {
	patterns []Pattern
}

// NewMatcher builds a Matcher from patterns in application order — the
// same order their source lines appeared, outermost ignore file first.
func NewMatcher(patterns []Pattern) *Matcher {
	return &Matcher{patterns: patterns}
}

// Match reports whether path (isDir indicating a directory entry) is
// ignored after applying every pattern in order.
func (m *Matcher) Match(path []string, isDir bool) bool {
	result := NoMatch
	for _, p := range m.patterns {
		if r := p.Match(path, isDir); r != NoMatch {
			result = r
		}
	}
	return result == Exclude
}
