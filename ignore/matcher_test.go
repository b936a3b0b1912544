package ignore

import "testing"

func TestMatcherLastMatchWins(t *testing.T) {
	ps := []Pattern{
		ParsePattern("**/middle/v[uo]l?ano", nil),
		ParsePattern("!volcano", nil),
	}

	m := NewMatcher(ps)
	if !m.Match([]string{"head", "middle", "vulkano"}, false) {
		t.Errorf("expected vulkano to be ignored")
	}
	if m.Match([]string{"head", "middle", "volcano"}, false) {
		t.Errorf("expected volcano to be re-included by the later !volcano rule")
	}
}

func TestStackPushPopScopesToDirectory(t *testing.T) {
	stack := NewStack(nil)

	mark := stack.Push(ParseFile("*.log\n", []string{"pkg"}))
	if !stack.Match([]string{"pkg", "debug.log"}, false) {
		t.Errorf("expected pkg/debug.log to be ignored while the rule is pushed")
	}
	if stack.Match([]string{"other", "debug.log"}, false) {
		t.Errorf("did not expect other/debug.log to match a rule scoped to pkg")
	}

	stack.Pop(mark)
	if stack.Match([]string{"pkg", "debug.log"}, false) {
		t.Errorf("expected pkg/debug.log to stop matching once its rule is popped")
	}
}

func TestParseFileSkipsBlankAndCommentLines(t *testing.T) {
	patterns := ParseFile("# comment\n\n*.tmp\n", nil)
	if len(patterns) != 1 {
		t.Fatalf("expected exactly one parsed pattern, got %d", len(patterns))
	}
}
