// Package vcs keeps a git-tracked task directory committed: after every
// command that touched files, pending changes are staged and committed
// automatically.
package vcs

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/kokistudios/shib/internal/run"
)

// Tracked reports whether dir is inside a git work tree.
func Tracked(dir string) bool {
	_, err := run.Quiet(exec.Command("git", "-C", dir, "rev-parse"))
	return err == nil
}

// AutoCommit stages and commits pending changes under dir with the given
// message. A clean tree is a no-op.
func AutoCommit(dir, message string) error {
	out, err := run.Quiet(exec.Command("git", "-C", dir, "status", "--porcelain=v2", "--", "."))
	if err != nil {
		return fmt.Errorf("git status: %w", err)
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return nil
	}
	if _, err := run.Quiet(exec.Command("git", "-C", dir, "add", ".")); err != nil {
		return fmt.Errorf("git add: %w", err)
	}
	if _, err := run.Quiet(exec.Command("git", "-C", dir, "commit", "-m", message)); err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	return nil
}

// CommitMessage builds the auto-commit message for an input line, naming
// just the command word.
func CommitMessage(line string) string {
	word, _, _ := strings.Cut(strings.TrimSpace(line), " ")
	return strings.TrimSpace("shibboleth " + word)
}
