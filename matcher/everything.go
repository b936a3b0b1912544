package matcher

import "github.com/jjgo/workcopy/path"

// Everything matches every path and never prunes a traversal.
type Everything struct{}

func (Everything) Matches(path.RepoPath) bool { return true }
func (Everything) Visit(path.RepoPath) Visit  { return AllRecursively }
