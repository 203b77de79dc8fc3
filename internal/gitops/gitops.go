// Package gitops records combined workbooks in the books directory's git
// history.
package gitops

import (
	"fmt"
	"os/exec"
	"strings"
)

// Init initializes a new git repository at dir.
func Init(dir string) error {
	if out, err := git(dir, "init", "--quiet"); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// IsRepo reports whether dir is inside a git work tree.
func IsRepo(dir string) bool {
	out, err := git(dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// CommitPaths stages the given paths and commits them with the given author.
// It returns the short hash of the new commit, or "" when the paths had no
// changes to commit.
func CommitPaths(dir, message, authorName, authorEmail string, paths ...string) (string, error) {
	if len(paths) == 0 {
		return "", fmt.Errorf("git commit: no paths")
	}

	args := append([]string{"add", "--"}, paths...)
	if out, err := git(dir, args...); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	// diff --cached --quiet exits 0 when nothing is staged.
	args = append([]string{"diff", "--cached", "--quiet", "--"}, paths...)
	if _, err := git(dir, args...); err == nil {
		return "", nil
	}

	author := fmt.Sprintf("%s <%s>", authorName, authorEmail)
	args = append([]string{"commit", "-m", message, "--author", author, "--"}, paths...)
	if out, err := git(dir, withIdentity(authorName, authorEmail, args)...); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	out, err := git(dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// withIdentity sets the committer so commits succeed on machines without a
// global git identity.
func withIdentity(name, email string, args []string) []string {
	return append([]string{"-c", "user.name=" + name, "-c", "user.email=" + email}, args...)
}

func git(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}
