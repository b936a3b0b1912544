package matcher

import "github.com/jjgo/workcopy/path"

// Files matches an explicit, fixed set of files (never directories).
type Files struct {
	set      map[string]struct{}
	dirKids  map[string]map[string]struct{}
	fileKids map[string]map[string]struct{}
}

// NewFiles builds a Files matcher over the given file paths.
func NewFiles(files []path.RepoPath) *Files {
	m := &Files{
		set:      make(map[string]struct{}, len(files)),
		dirKids:  make(map[string]map[string]struct{}),
		fileKids: make(map[string]map[string]struct{}),
	}

	for _, f := range files {
		m.set[f.String()] = struct{}{}

		comps := f.Components()
		dir := path.Root()
		for i, c := range comps {
			last := i == len(comps)-1
			key := dir.String()
			if last {
				if m.fileKids[key] == nil {
					m.fileKids[key] = make(map[string]struct{})
				}
				m.fileKids[key][c] = struct{}{}
			} else {
				if m.dirKids[key] == nil {
					m.dirKids[key] = make(map[string]struct{})
				}
				m.dirKids[key][c] = struct{}{}
				dir, _ = dir.Join(c)
			}
		}
	}

	return m
}

// Matches reports whether file is one of the explicitly listed files.
func (m *Files) Matches(file path.RepoPath) bool {
	_, ok := m.set[file.String()]
	return ok
}

// Visit returns the subdirectories and file basenames of dir that are on a
// path to a listed file.
func (m *Files) Visit(dir path.RepoPath) Visit {
	key := dir.String()

	dirs := NameSet{Names: m.dirKids[key]}
	files := NameSet{Names: m.fileKids[key]}
	if dirs.Names == nil {
		dirs.Names = map[string]struct{}{}
	}
	if files.Names == nil {
		files.Names = map[string]struct{}{}
	}

	return Some(dirs, files)
}
