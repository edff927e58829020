// Package gitinfo reads the checked-out branch of the repository that
// contains a file, straight from .git/HEAD.
package gitinfo

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var errNoRepo = errors.New("git dir not found")

// Head describes what a repository has checked out.
type Head struct {
	Root     string
	Branch   string
	Detached bool
}

func (h Head) String() string {
	if h.Detached {
		if h.Branch == "" {
			return "detached"
		}
		return "detached:" + h.Branch
	}
	return h.Branch
}

// Lookup finds the repository enclosing path. path may be a file that does
// not exist yet; its directory is searched instead.
func Lookup(path string) (Head, bool) {
	if path == "" {
		return Head{}, false
	}
	gitDir, root, err := findGitDir(path)
	if err != nil {
		return Head{}, false
	}
	h, err := readHead(gitDir)
	if err != nil {
		return Head{}, false
	}
	h.Root = root
	return h, true
}

// Branch is Lookup reduced to the status line label, or "" outside a repository.
func Branch(path string) string {
	h, ok := Lookup(path)
	if !ok {
		return ""
	}
	return h.String()
}

func findGitDir(path string) (gitDir, root string, err error) {
	start, err := filepath.Abs(path)
	if err != nil {
		return "", "", err
	}
	if info, err := os.Stat(start); err != nil || !info.IsDir() {
		start = filepath.Dir(start)
	}
	for {
		candidate := filepath.Join(start, ".git")
		if info, err := os.Stat(candidate); err == nil {
			if info.IsDir() {
				return candidate, start, nil
			}
			if info.Mode().IsRegular() {
				dir, err := readGitFile(candidate, start)
				return dir, start, err
			}
		}
		parent := filepath.Dir(start)
		if parent == start {
			return "", "", errNoRepo
		}
		start = parent
	}
}

// readGitFile follows the "gitdir: <path>" indirection used by worktrees
// and submodules.
func readGitFile(path, base string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(string(data))
	const prefix = "gitdir:"
	if !strings.HasPrefix(line, prefix) {
		return "", errNoRepo
	}
	dir := strings.TrimSpace(strings.TrimPrefix(line, prefix))
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(base, dir)
	}
	return dir, nil
}

func readHead(gitDir string) (Head, error) {
	f, err := os.Open(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		return Head{}, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return Head{}, errors.New("empty HEAD")
	}
	line := strings.TrimSpace(scanner.Text())
	const refPrefix = "ref:"
	if strings.HasPrefix(line, refPrefix) {
		ref := strings.TrimSpace(strings.TrimPrefix(line, refPrefix))
		return Head{Branch: strings.TrimPrefix(ref, "refs/heads/")}, nil
	}
	h := Head{Detached: true}
	if len(line) >= 7 {
		h.Branch = line[:7]
	}
	return h, nil
}
