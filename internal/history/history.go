// Package history records the data directory in a local git repository so
// every ledger change can be inspected or reverted with plain git.
package history

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Repo is a git working tree rooted at a data directory.
type Repo struct {
	Dir         string
	AuthorName  string
	AuthorEmail string
}

// ErrNothingToCommit is returned by Commit when the tree is unchanged.
var ErrNothingToCommit = errors.New("nothing to commit")

// Init initializes a new git repository at r.Dir.
func (r Repo) Init() error {
	if _, err := r.git("init"); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	return nil
}

// IsRepo reports whether r.Dir holds a git repository.
func (r Repo) IsRepo() bool {
	_, err := os.Stat(filepath.Join(r.Dir, ".git"))
	return err == nil
}

// Commit stages every change in the data directory and commits it. Returns
// the short commit hash, or ErrNothingToCommit when nothing changed.
func (r Repo) Commit(message string) (string, error) {
	if _, err := r.git("add", "-A"); err != nil {
		return "", fmt.Errorf("git add: %w", err)
	}

	// diff --cached --quiet exits 1 when something is staged.
	if _, err := r.git("diff", "--cached", "--quiet"); err == nil {
		return "", ErrNothingToCommit
	}

	author := fmt.Sprintf("%s <%s>", r.AuthorName, r.AuthorEmail)
	if _, err := r.git("-c", "user.name="+r.AuthorName, "-c", "user.email="+r.AuthorEmail,
		"commit", "-m", message, "--author", author); err != nil {
		return "", fmt.Errorf("git commit: %w", err)
	}

	out, err := r.git("rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func (r Repo) git(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s: %w", strings.TrimSpace(string(out)), err)
	}
	return string(out), nil
}
