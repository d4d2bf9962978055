// Package session owns the cross-command mutable state: the selected task
// and the working directory cursor. Every metadata mutation renames the
// underlying file through the codec and repoints the selection in the same
// operation, so the selection never dangles.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kokistudios/shib/internal/task"
	"github.com/kokistudios/shib/internal/vault"
)

var timeNow = func() time.Time { return time.Now() }

// State is the explicit loop state threaded through the dispatcher.
type State struct {
	Selection *task.Task
	Dir       string
}

// New returns a state rooted at dir (resolved to an absolute path).
func New(dir string) (*State, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("cannot open directory %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", abs)
	}
	return &State{Dir: abs}, nil
}

// Selected reports whether a task is selected.
func (s *State) Selected() bool { return s.Selection != nil }

// ChangeDir moves the working directory cursor. The state is unchanged on
// failure.
func (s *State) ChangeDir(dir string) error {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(s.Dir, dir)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot open directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}
	s.Dir = dir
	return nil
}

// Select resolves a criterion against the working directory scan and
// transitions to Selected. A criterion is tried as an exact filename, then
// as a 1-based ordinal into the scan order, then as a filename fragment.
// Zero matches fail with NotFoundError, several with
// AmbiguousSelectionError; the state is unchanged on failure.
func (s *State) Select(criterion string) (task.Task, error) {
	criterion = strings.TrimSpace(criterion)
	if criterion == "" {
		return task.Task{}, &NotFoundError{Criterion: criterion}
	}

	if t, ok := s.selectExact(criterion); ok {
		s.Selection = &t
		return t, nil
	}

	tasks, err := vault.Scan(s.Dir)
	if err != nil {
		return task.Task{}, err
	}

	if n, err := strconv.Atoi(criterion); err == nil && n >= 1 && n <= len(tasks) {
		t := tasks[n-1]
		s.Selection = &t
		return t, nil
	}

	var matches []task.Task
	for _, t := range tasks {
		if strings.Contains(filepath.Base(t.Path), criterion) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return task.Task{}, &NotFoundError{Criterion: criterion}
	case 1:
		t := matches[0]
		s.Selection = &t
		return t, nil
	default:
		return task.Task{}, &AmbiguousSelectionError{Criterion: criterion, Matches: matches}
	}
}

func (s *State) selectExact(criterion string) (task.Task, bool) {
	path := criterion
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.Dir, path)
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return task.Task{}, false
	}
	t, _ := task.Decode(filepath.Base(path))
	t.Path = path
	return t, true
}

// Deselect transitions to Unselected from any state.
func (s *State) Deselect() { s.Selection = nil }

// Change describes one completed mutation: the task after the rename and
// the paths the version-control hook should observe.
type Change struct {
	Task    task.Task
	Touched []string
}

// SetPriority renames the selected task with the new priority token.
// PriorityNone clears the token.
func (s *State) SetPriority(p task.Priority) (Change, error) {
	return s.mutate("priority", func(t *task.Task) bool {
		if t.Priority == p {
			return false
		}
		t.Priority = p
		return true
	})
}

// AddTags appends the missing tags in order. Tags already present are
// no-ops, never duplicated.
func (s *State) AddTags(tags []string) (Change, error) {
	return s.mutate("tag", func(t *task.Task) bool {
		changed := false
		for _, tag := range tags {
			if t.AddTag(tag) {
				changed = true
			}
		}
		return changed
	})
}

// RemoveTags removes the given tags. Absent tags are no-ops.
func (s *State) RemoveTags(tags []string) (Change, error) {
	return s.mutate("untag", func(t *task.Task) bool {
		changed := false
		for _, tag := range tags {
			if t.RemoveTag(tag) {
				changed = true
			}
		}
		return changed
	})
}

// Complete marks the selected task done and moves it into the completed/
// subdirectory when one exists. The selection is cleared afterwards.
func (s *State) Complete() (Change, error) {
	if s.Selection == nil {
		return Change{}, &NoSelectionError{Op: "done"}
	}
	cur := *s.Selection
	if _, err := os.Stat(cur.Path); err != nil {
		if os.IsNotExist(err) {
			s.Selection = nil
			return Change{}, &NotFoundError{Criterion: filepath.Base(cur.Path)}
		}
		return Change{}, fmt.Errorf("checking %s: %w", cur.Path, err)
	}

	next := cur
	next.Tags = append([]string(nil), cur.Tags...)
	next.RemoveTag("done")
	next.Priority = task.PriorityDone
	stampIfNeeded(&next)

	targetDir := filepath.Dir(cur.Path)
	if completed, ok := vault.CompletedDir(targetDir); ok {
		targetDir = completed
	}
	newPath := filepath.Join(targetDir, task.Encode(next))
	if newPath != cur.Path {
		if _, err := os.Stat(newPath); err == nil {
			return Change{}, &task.CollisionError{Path: newPath}
		}
		if err := os.Rename(cur.Path, newPath); err != nil {
			if os.IsNotExist(err) {
				s.Selection = nil
				return Change{}, &NotFoundError{Criterion: filepath.Base(cur.Path)}
			}
			return Change{}, fmt.Errorf("renaming %s: %w", cur.Path, err)
		}
	}
	next.Path = newPath

	s.Selection = nil
	return Change{Task: next, Touched: touched(cur.Path, newPath)}, nil
}

// mutate applies mut to a copy of the selection, renames the file when the
// encoded name changed, and repoints the selection at the new path.
func (s *State) mutate(op string, mut func(*task.Task) bool) (Change, error) {
	if s.Selection == nil {
		return Change{}, &NoSelectionError{Op: op}
	}
	cur := *s.Selection
	if _, err := os.Stat(cur.Path); err != nil {
		if os.IsNotExist(err) {
			s.Selection = nil
			return Change{}, &NotFoundError{Criterion: filepath.Base(cur.Path)}
		}
		return Change{}, fmt.Errorf("checking %s: %w", cur.Path, err)
	}

	next := cur
	next.Tags = append([]string(nil), cur.Tags...)
	if !mut(&next) {
		return Change{Task: cur}, nil
	}
	stampIfNeeded(&next)

	newPath := filepath.Join(filepath.Dir(cur.Path), task.Encode(next))
	if newPath == cur.Path {
		s.Selection = &next
		return Change{Task: next}, nil
	}
	if _, err := os.Stat(newPath); err == nil {
		return Change{}, &task.CollisionError{Path: newPath}
	}
	if err := os.Rename(cur.Path, newPath); err != nil {
		if os.IsNotExist(err) {
			s.Selection = nil
			return Change{}, &NotFoundError{Criterion: filepath.Base(cur.Path)}
		}
		return Change{}, fmt.Errorf("renaming %s: %w", cur.Path, err)
	}
	next.Path = newPath

	s.Selection = &next
	return Change{Task: next, Touched: touched(cur.Path, newPath)}, nil
}

// stampIfNeeded assigns the clock to a task that gained metadata without a
// timestamp, so the rename decodes losslessly.
func stampIfNeeded(t *task.Task) {
	if t.Timestamp.IsZero() && (t.Priority != task.PriorityNone || len(t.Tags) > 0) {
		t.Timestamp = timeNow()
	}
}

func touched(oldPath, newPath string) []string {
	if oldPath == newPath {
		return []string{newPath}
	}
	return []string{oldPath, newPath}
}
