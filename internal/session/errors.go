package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kokistudios/shib/internal/task"
)

var (
	ErrNoSelection = errors.New("no task selected")
	ErrAmbiguous   = errors.New("selection is ambiguous")
	ErrNotFound    = errors.New("no matching task")
)

// AmbiguousSelectionError lists the tasks a criterion matched so the user
// message can show them. It satisfies errors.Is(err, ErrAmbiguous).
type AmbiguousSelectionError struct {
	Criterion string
	Matches   []task.Task
}

func (e *AmbiguousSelectionError) Error() string {
	names := make([]string, len(e.Matches))
	for i, t := range e.Matches {
		names[i] = t.Filename()
	}
	return fmt.Sprintf("%q matches %d tasks: %s", e.Criterion, len(e.Matches), strings.Join(names, ", "))
}

func (e *AmbiguousSelectionError) Is(target error) bool { return target == ErrAmbiguous }

// NotFoundError reports a criterion that resolved to nothing, including
// files vanishing between scan and mutation.
type NotFoundError struct {
	Criterion string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no task matching %q", e.Criterion)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NoSelectionError reports a mutation attempted with nothing selected.
type NoSelectionError struct {
	Op string
}

func (e *NoSelectionError) Error() string {
	return fmt.Sprintf("%s: select a file first and try again", e.Op)
}

func (e *NoSelectionError) Is(target error) bool { return target == ErrNoSelection }
