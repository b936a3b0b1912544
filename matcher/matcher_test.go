package matcher_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/jjgo/workcopy/matcher"
	"github.com/jjgo/workcopy/path"
)

func mustParse(t *testing.T, s string) path.RepoPath {
	t.Helper()
	p, err := path.Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return p
}

type MatcherSuite struct {
	suite.Suite
}

func TestMatcherSuite(t *testing.T) {
	suite.Run(t, new(MatcherSuite))
}

func (s *MatcherSuite) TestNothing() {
	m := matcher.Nothing{}
	s.False(m.Matches(mustParse(s.T(), "a/b")))
	v := m.Visit(path.Root())
	s.Equal(matcher.KindNothing, v.Kind)
}

func (s *MatcherSuite) TestEverything() {
	m := matcher.Everything{}
	s.True(m.Matches(mustParse(s.T(), "a/b")))
	v := m.Visit(mustParse(s.T(), "a/b/c"))
	s.Equal(matcher.KindAllRecursively, v.Kind)
}

func (s *MatcherSuite) TestFiles() {
	files := []path.RepoPath{
		mustParse(s.T(), "file1"),
		mustParse(s.T(), "dir1/file1"),
		mustParse(s.T(), "dir1/subdir1/file1"),
	}
	m := matcher.NewFiles(files)

	s.True(m.Matches(mustParse(s.T(), "file1")))
	s.True(m.Matches(mustParse(s.T(), "dir1/file1")))
	s.False(m.Matches(mustParse(s.T(), "dir1/file2")))

	root := m.Visit(path.Root())
	s.True(root.Dirs.Contains("dir1"))
	s.True(root.Files.Contains("file1"))
	s.False(root.Files.Contains("file2"))

	dir1 := m.Visit(mustParse(s.T(), "dir1"))
	s.True(dir1.Dirs.Contains("subdir1"))
	s.True(dir1.Files.Contains("file1"))

	other := m.Visit(mustParse(s.T(), "dir2"))
	s.Equal(matcher.KindNothing, other.Kind)
}

func (s *MatcherSuite) TestPrefix() {
	m := matcher.NewPrefix([]path.RepoPath{mustParse(s.T(), "dir1")})

	s.True(m.Matches(mustParse(s.T(), "dir1")))
	s.True(m.Matches(mustParse(s.T(), "dir1/subdir1/file1")))
	s.False(m.Matches(mustParse(s.T(), "dir2/file1")))

	root := m.Visit(path.Root())
	s.True(root.Dirs.Contains("dir1"))
	s.False(root.Dirs.Contains("dir2"))

	inside := m.Visit(mustParse(s.T(), "dir1"))
	s.Equal(matcher.KindAllRecursively, inside.Kind)
}

func (s *MatcherSuite) TestPrefixRootMatchesEverything() {
	m := matcher.NewPrefix([]path.RepoPath{path.Root()})
	s.True(m.Matches(mustParse(s.T(), "anything/at/all")))
	v := m.Visit(path.Root())
	s.Equal(matcher.KindAllRecursively, v.Kind)
}

func (s *MatcherSuite) TestPrefixNestedOutermostWins() {
	m := matcher.NewPrefix([]path.RepoPath{
		mustParse(s.T(), "dir1"),
		mustParse(s.T(), "dir1/subdir1"),
	})

	// Once inside the outer prefix, visiting must not re-check the inner one.
	v := m.Visit(mustParse(s.T(), "dir1"))
	s.Equal(matcher.KindAllRecursively, v.Kind)
}

func (s *MatcherSuite) TestPrefixDirectChildIsBothDirAndFile() {
	m := matcher.NewPrefix([]path.RepoPath{mustParse(s.T(), "leaf")})
	root := m.Visit(path.Root())
	s.True(root.Dirs.Contains("leaf"))
	s.True(root.Files.Contains("leaf"))
}
