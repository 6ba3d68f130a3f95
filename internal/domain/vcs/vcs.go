// Package vcs defines the version control domain types shared by git
// providers and the services built on top of them.
package vcs

// Status holds the parsed working tree state of a repository. A file can
// appear in both Staged and Modified when it was staged and then edited
// again before the next commit.
type Status struct {
	Branch    string   `json:"branch"`
	Staged    []string `json:"staged"`
	Modified  []string `json:"modified"`
	Untracked []string `json:"untracked"`
}

// Clean reports whether the working tree has no pending changes.
func (s Status) Clean() bool {
	return len(s.Staged) == 0 && len(s.Modified) == 0 && len(s.Untracked) == 0
}

// Branches holds the branch listing of a repository. The current branch is
// included in Local.
type Branches struct {
	Current string   `json:"current"`
	Local   []string `json:"local"`
	Remote  []string `json:"remote"`
}

// OpResult is the outcome of a repository operation. OK reports whether the
// underlying command succeeded; Output carries the command's text for
// display. A failed command is a normal result, not an error.
type OpResult struct {
	OK     bool   `json:"ok"`
	Output string `json:"output"`
}
