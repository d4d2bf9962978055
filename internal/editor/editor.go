// Package editor resolves and launches the user's text editor.
package editor

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/kokistudios/shib/internal/run"
)

// Editor is a resolved editor command line.
type Editor struct {
	command string
}

// Resolve picks the editor command: the explicit override first, then
// VISUAL, then EDITOR, then vi.
func Resolve(override string) Editor {
	for _, candidate := range []string{override, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if strings.TrimSpace(candidate) != "" {
			return Editor{command: strings.TrimSpace(candidate)}
		}
	}
	return Editor{command: "vi"}
}

func (e Editor) String() string { return e.command }

// Name returns the base name of the editor binary.
func (e Editor) Name() string {
	words := splitShellWords(e.command)
	if len(words) == 0 {
		return e.command
	}
	return filepath.Base(words[0])
}

func (e Editor) isVi() bool {
	switch strings.ToLower(e.Name()) {
	case "vi", "vim", "nvim":
		return true
	}
	return false
}

// Open opens the file for plain editing.
func (e Editor) Open(filename string) error {
	return e.open(filename)
}

// OpenAtEnd opens the file positioned on a fresh line at the bottom, for
// editing a just-created task.
func (e Editor) OpenAtEnd(filename string) error {
	return e.open(filename, "+normal Go")
}

// OpenAppend opens the file at the bottom in insert mode, for appending a
// journal entry.
func (e Editor) OpenAppend(filename string) error {
	return e.open(filename, "+normal Go", "-c", "startinsert")
}

// open launches the editor. Positioning flags only apply to the vi family;
// other editors get the bare filename. vi also gets -n so no swap file
// litters the task directory.
func (e Editor) open(filename string, positioning ...string) error {
	words := splitShellWords(e.command)
	if len(words) == 0 {
		return errors.New("empty editor command")
	}
	args := words[1:]
	if e.isVi() {
		args = append(args, "-n")
		args = append(args, positioning...)
	}
	args = append(args, filename)
	return run.Interactive(exec.Command(words[0], args...))
}

// splitShellWords splits a shell-like command string into argv, handling
// basic quoting. It supports single quotes, double quotes, and backslash
// escaping (outside single quotes).
func splitShellWords(s string) []string {
	var out []string
	var cur []rune
	inSingle := false
	inDouble := false
	escaped := false

	flush := func() {
		if len(cur) == 0 {
			return
		}
		out = append(out, string(cur))
		cur = cur[:0]
	}

	for _, r := range []rune(s) {
		if escaped {
			cur = append(cur, r)
			escaped = false
			continue
		}

		if r == '\\' && !inSingle {
			escaped = true
			continue
		}

		if r == '\'' && !inDouble {
			inSingle = !inSingle
			continue
		}

		if r == '"' && !inSingle {
			inDouble = !inDouble
			continue
		}

		if !inSingle && !inDouble && unicode.IsSpace(r) {
			flush()
			continue
		}

		cur = append(cur, r)
	}

	flush()
	return out
}
