package task

import (
	"path/filepath"
	"strings"
	"time"
)

// Priority is one urgency bucket, encoded as a bracket token. PriorityNone
// means the filename carries no priority token.
type Priority string

const (
	PriorityInbox   Priority = "inbox"
	PriorityNow     Priority = "1-now"
	PriorityNext    Priority = "2-next"
	PrioritySoon    Priority = "3-soon"
	PriorityLater   Priority = "4-later"
	PrioritySomeday Priority = "5-someday"
	PriorityWaiting Priority = "6-waiting"
	PriorityDone    Priority = "done"
	PriorityNone    Priority = ""
)

// Priorities lists every bucket in report order. PriorityNone comes last and
// collects tasks with no priority token.
var Priorities = []Priority{
	PriorityInbox,
	PriorityNow,
	PriorityNext,
	PrioritySoon,
	PriorityLater,
	PrioritySomeday,
	PriorityWaiting,
	PriorityDone,
	PriorityNone,
}

// priorityKeys maps the short names accepted by the priority/pls commands
// to their labels.
var priorityKeys = map[string]Priority{
	"inbox": PriorityInbox,
	"1":     PriorityNow,
	"2":     PriorityNext,
	"3":     PrioritySoon,
	"4":     PriorityLater,
	"5":     PrioritySomeday,
	"6":     PriorityWaiting,
}

// ParseKey resolves a priority short key (1-6, inbox) as used by the
// priority and pls commands.
func ParseKey(s string) (Priority, bool) {
	p, ok := priorityKeys[s]
	return p, ok
}

// IsLabel reports whether s is a full priority label, done included.
func IsLabel(s string) bool {
	switch Priority(s) {
	case PriorityInbox, PriorityNow, PriorityNext, PrioritySoon,
		PriorityLater, PrioritySomeday, PriorityWaiting, PriorityDone:
		return true
	}
	return false
}

// NormalizeToken maps a matching token to its priority label when it is a
// short key (work 1 means work 1-now); anything else passes through as-is.
func NormalizeToken(s string) string {
	if p, ok := priorityKeys[s]; ok {
		return string(p)
	}
	return s
}

// Task is one entity per file in the working directory. All metadata lives
// in the filename; the file body is free-form content.
type Task struct {
	Title     string
	Timestamp time.Time
	Priority  Priority
	Tags      []string
	Ext       string
	Path      string
}

// Filename returns the encoded name for the task's current metadata.
func (t Task) Filename() string {
	return Encode(t)
}

// Dir returns the directory holding the task file.
func (t Task) Dir() string {
	return filepath.Dir(t.Path)
}

// HasTag reports exact-string tag membership.
func (t Task) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

// Matches reports whether token equals the task's priority label or is a
// member of its tag list. Token matching is exact-string.
func (t Task) Matches(token string) bool {
	if t.Priority != PriorityNone && token == string(t.Priority) {
		return true
	}
	return t.HasTag(token)
}

// IsDone reports completion. Legacy encodings carry done in tag position,
// so tag membership counts as well as the priority token.
func (t Task) IsDone() bool {
	return t.Priority == PriorityDone || t.HasTag("done")
}

// AddTag appends tag if absent and reports whether the tag list changed.
func (t *Task) AddTag(tag string) bool {
	if t.HasTag(tag) {
		return false
	}
	t.Tags = append(t.Tags, tag)
	return true
}

// RemoveTag removes tag if present and reports whether the tag list changed.
func (t *Task) RemoveTag(tag string) bool {
	for i, have := range t.Tags {
		if have == tag {
			t.Tags = append(t.Tags[:i], t.Tags[i+1:]...)
			return true
		}
	}
	return false
}

// Equal compares logical identity: title, timestamp, priority, and tag sets
// (order-insensitive). Path and extension are location details.
func (t Task) Equal(other Task) bool {
	if t.Title != other.Title || !t.Timestamp.Equal(other.Timestamp) || t.Priority != other.Priority {
		return false
	}
	if len(t.Tags) != len(other.Tags) {
		return false
	}
	for _, tag := range t.Tags {
		if !other.HasTag(tag) {
			return false
		}
	}
	return true
}

// TitleWords normalizes a human title the way new does: words joined by
// dashes, so "write the report" becomes "write-the-report".
func TitleWords(words []string) string {
	return strings.Join(strings.Fields(strings.Join(words, " ")), "-")
}
