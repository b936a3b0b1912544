package matcher

import "github.com/jjgo/workcopy/path"

// Nothing matches no path and prunes every traversal at the root.
type Nothing struct{}

func (Nothing) Matches(path.RepoPath) bool { return false }
func (Nothing) Visit(path.RepoPath) Visit  { return NothingVisit }
