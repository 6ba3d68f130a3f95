package vcs

import "strings"

// Porcelain status columns: first is the index state, second the work tree.
const (
	stagedCodes   = "MADRC"
	modifiedCodes = "MD"
)

// ParseStatus parses `git status --porcelain` output. One line can populate
// several sets ("MM" counts as staged and modified). Paths are kept exactly
// as git prints them, including rename arrows.
func ParseStatus(out string) Status {
	st := Status{
		Staged:    []string{},
		Modified:  []string{},
		Untracked: []string{},
	}
	seen := map[string]map[string]struct{}{
		"staged":    {},
		"modified":  {},
		"untracked": {},
	}
	add := func(set string, dst *[]string, path string) {
		if _, ok := seen[set][path]; ok {
			return
		}
		seen[set][path] = struct{}{}
		*dst = append(*dst, path)
	}

	for _, line := range strings.Split(out, "\n") {
		if len(line) < 3 || strings.TrimSpace(line) == "" {
			continue
		}
		code := line[:2]
		path := strings.TrimSpace(line[3:])
		if path == "" {
			continue
		}

		if code == "??" {
			add("untracked", &st.Untracked, path)
			continue
		}
		if strings.ContainsRune(stagedCodes, rune(code[0])) {
			add("staged", &st.Staged, path)
		}
		if strings.ContainsRune(modifiedCodes, rune(code[1])) {
			add("modified", &st.Modified, path)
		}
	}
	return st
}

// ParseLocalBranches parses `git branch --list` output. The current branch
// carries a leading "* " which is stripped; it stays in the local list.
func ParseLocalBranches(out string) (current string, local []string) {
	local = []string{}
	for _, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		if strings.HasPrefix(name, "*") {
			name = strings.TrimSpace(strings.TrimPrefix(name, "*"))
			if name == "" {
				continue
			}
			current = name
		}
		local = append(local, name)
	}
	return current, local
}

// ParseRemoteBranches parses `git branch -r` output, dropping blank lines
// and detached markers.
func ParseRemoteBranches(out string) []string {
	remote := []string{}
	for _, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(line)
		if name == "" || strings.HasPrefix(name, "*") {
			continue
		}
		remote = append(remote, name)
	}
	return remote
}

// ParseCommitLines splits formatted `git log` output into one entry per
// commit, dropping blank lines.
func ParseCommitLines(out string) []string {
	commits := []string{}
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		commits = append(commits, line)
	}
	return commits
}
