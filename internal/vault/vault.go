// Package vault reads task directories. The filesystem is the source of
// truth: every command re-scans, nothing is cached across commands.
package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kokistudios/shib/internal/task"
)

// Bookkeeping files that never show up as tasks.
var hiddenFiles = map[string]bool{
	".last.shib":     true,
	".gitignore":     true,
	"shibboleth.log": true,
}

// CompletedDirName is the subdirectory done tasks move into when it exists.
const CompletedDirName = "completed"

func isSwapFile(name string) bool {
	ext := filepath.Ext(name)
	return strings.HasPrefix(ext, ".sw") && len(ext) == 4
}

// Scan decodes every regular file in dir, in lexical order. Hidden
// bookkeeping files and editor swap files are skipped; undecodable names
// degrade to opaque-title tasks. A missing directory scans as empty.
func Scan(dir string) ([]task.Task, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot read directory %s: %w", dir, err)
	}

	var tasks []task.Task
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if hiddenFiles[name] || isSwapFile(name) {
			continue
		}
		t, _ := task.Decode(name)
		t.Path = filepath.Join(dir, name)
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Bucket is one priority's tasks in scan order.
type Bucket struct {
	Priority task.Priority
	Tasks    []task.Task
}

// GroupByPriority buckets tasks in the fixed enumeration order, empty
// buckets included. Tasks carrying a done tag bucket as done regardless of
// their priority token.
func GroupByPriority(tasks []task.Task) []Bucket {
	byPriority := make(map[task.Priority][]task.Task, len(task.Priorities))
	for _, t := range tasks {
		p := t.Priority
		if t.IsDone() {
			p = task.PriorityDone
		}
		byPriority[p] = append(byPriority[p], t)
	}

	buckets := make([]Bucket, 0, len(task.Priorities))
	for _, p := range task.Priorities {
		buckets = append(buckets, Bucket{Priority: p, Tasks: byPriority[p]})
	}
	return buckets
}

// Match returns the tasks whose priority label or tag list matches token
// exactly. No match is an empty result, not an error.
func Match(tasks []task.Task, token string) []task.Task {
	var out []task.Task
	for _, t := range tasks {
		if t.Matches(token) {
			out = append(out, t)
		}
	}
	return out
}

// MatchAll returns the tasks matching every token.
func MatchAll(tasks []task.Task, tokens []string) []task.Task {
	var out []task.Task
next:
	for _, t := range tasks {
		for _, token := range tokens {
			if !t.Matches(token) {
				continue next
			}
		}
		out = append(out, t)
	}
	return out
}

// CompletedDir reports the completed/ subdirectory of dir and whether it
// exists.
func CompletedDir(dir string) (string, bool) {
	path := filepath.Join(dir, CompletedDirName)
	info, err := os.Stat(path)
	return path, err == nil && info.IsDir()
}
