// Package run wraps subprocess execution for the editor, launcher,
// version-control hook, and plugins, classifying failures into the shared
// error vocabulary.
package run

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
)

var (
	ErrSubprocess  = errors.New("subprocess failed")
	ErrInterrupted = errors.New("subprocess interrupted")
)

// SubprocessError reports a failed external program by name.
type SubprocessError struct {
	Name string
	Err  error
}

func (e *SubprocessError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *SubprocessError) Unwrap() error { return e.Err }

func (e *SubprocessError) Is(target error) bool { return target == ErrSubprocess }

// Available checks that the named program resolves on PATH.
func Available(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return &SubprocessError{Name: name, Err: err}
	}
	return nil
}

// Interactive runs cmd attached to the terminal. An interrupt or
// termination signal maps to ErrInterrupted, any other failure to
// SubprocessError.
func Interactive(cmd *exec.Cmd) error {
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return classify(cmd, err)
	}
	return nil
}

// Quiet runs cmd with output captured. On failure the combined output is
// folded into the error message and still returned for callers that want
// to inspect it.
func Quiet(cmd *exec.Cmd) ([]byte, error) {
	out, err := cmd.CombinedOutput()
	if err == nil {
		return out, nil
	}
	if isInterrupt(err) {
		return out, ErrInterrupted
	}
	if msg := strings.TrimSpace(string(out)); msg != "" {
		return out, &SubprocessError{Name: filepath.Base(cmd.Path), Err: fmt.Errorf("%w: %s", err, msg)}
	}
	return out, classify(cmd, err)
}

func classify(cmd *exec.Cmd, err error) error {
	name := filepath.Base(cmd.Path)
	if isInterrupt(err) {
		return ErrInterrupted
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &SubprocessError{Name: name, Err: fmt.Errorf("exited with code %d", exitErr.ExitCode())}
	}
	return &SubprocessError{Name: name, Err: err}
}

func isInterrupt(err error) bool {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			return status.Signal() == syscall.SIGINT || status.Signal() == syscall.SIGTERM
		}
	}
	return false
}
