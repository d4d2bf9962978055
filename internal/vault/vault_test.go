package vault

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kokistudios/shib/internal/task"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("Title: x\n\n"), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"Write-report[20220101~100000 inbox].md",
		"plan-trip[20220102~090000 2-next travel].md",
		"randomfile.txt",
		".last.shib",
		".gitignore",
		"shibboleth.log",
		".report.md.swp",
	)
	if err := os.Mkdir(filepath.Join(dir, "completed"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	tasks, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("got %d tasks, want 3: %v", len(tasks), tasks)
	}
	for _, tsk := range tasks {
		if tsk.Path == "" {
			t.Errorf("task %q has no path", tsk.Title)
		}
	}
	// Lexical order from os.ReadDir.
	if tasks[0].Title != "Write-report" {
		t.Errorf("first task = %q, want Write-report", tasks[0].Title)
	}
}

func TestScan_MissingDir(t *testing.T) {
	tasks, err := Scan(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("got %d tasks, want 0", len(tasks))
	}
}

func TestScan_SwapFilter(t *testing.T) {
	cases := []struct {
		name string
		skip bool
	}{
		{".report.md.swp", true},
		{".report.md.swo", true},
		{"notes.sw", false},     // suffix too short
		{"report.swing", false}, // suffix too long
	}
	for _, tc := range cases {
		if got := isSwapFile(tc.name); got != tc.skip {
			t.Errorf("isSwapFile(%q) = %v, want %v", tc.name, got, tc.skip)
		}
	}
}

func TestGroupByPriority_OrderAndEmpties(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"a[20220101~100000 1-now].md",
		"b[20220101~100001 1-now].md",
		"c[20220101~100002 5-someday].md",
		"untagged.md",
	)
	tasks, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	buckets := GroupByPriority(tasks)
	if len(buckets) != len(task.Priorities) {
		t.Fatalf("got %d buckets, want %d", len(buckets), len(task.Priorities))
	}
	for i, b := range buckets {
		if b.Priority != task.Priorities[i] {
			t.Errorf("bucket %d = %q, want %q", i, b.Priority, task.Priorities[i])
		}
	}

	counts := map[task.Priority]int{}
	for _, b := range buckets {
		counts[b.Priority] = len(b.Tasks)
	}
	if counts[task.PriorityNow] != 2 {
		t.Errorf("1-now count = %d, want 2", counts[task.PriorityNow])
	}
	if counts[task.PrioritySomeday] != 1 {
		t.Errorf("5-someday count = %d, want 1", counts[task.PrioritySomeday])
	}
	if counts[task.PriorityNone] != 1 {
		t.Errorf("none count = %d, want 1", counts[task.PriorityNone])
	}
	if counts[task.PriorityInbox] != 0 {
		t.Errorf("inbox count = %d, want 0", counts[task.PriorityInbox])
	}
}

func TestGroupByPriority_LegacyDoneTag(t *testing.T) {
	tasks := []task.Task{
		{Title: "a", Priority: task.PriorityNow, Tags: []string{"done"}},
		{Title: "b", Priority: task.PriorityDone},
	}
	buckets := GroupByPriority(tasks)
	for _, b := range buckets {
		switch b.Priority {
		case task.PriorityDone:
			if len(b.Tasks) != 2 {
				t.Errorf("done bucket = %d tasks, want 2", len(b.Tasks))
			}
		default:
			if len(b.Tasks) != 0 {
				t.Errorf("bucket %q = %d tasks, want 0", b.Priority, len(b.Tasks))
			}
		}
	}
}

func TestMatch(t *testing.T) {
	tasks := []task.Task{
		{Title: "a", Priority: task.PriorityNow, Tags: []string{"email"}},
		{Title: "b", Priority: task.PriorityInbox},
		{Title: "c", Tags: []string{"email", "security"}},
	}

	got := Match(tasks, "1-now")
	if len(got) != 1 || got[0].Title != "a" {
		t.Errorf("Match(1-now) = %v", got)
	}

	got = Match(tasks, "email")
	if len(got) != 2 {
		t.Errorf("Match(email) = %d tasks, want 2", len(got))
	}

	got = Match(tasks, "nothing")
	if len(got) != 0 {
		t.Errorf("Match(nothing) = %v, want empty", got)
	}
}

func TestMatchAll(t *testing.T) {
	tasks := []task.Task{
		{Title: "a", Priority: task.PriorityWaiting, Tags: []string{"email", "security"}},
		{Title: "b", Priority: task.PriorityWaiting, Tags: []string{"email"}},
	}

	got := MatchAll(tasks, []string{"6-waiting", "email", "security"})
	if len(got) != 1 || got[0].Title != "a" {
		t.Errorf("MatchAll = %v, want [a]", got)
	}

	got = MatchAll(tasks, []string{"6-waiting"})
	if len(got) != 2 {
		t.Errorf("MatchAll single token = %d tasks, want 2", len(got))
	}
}

func TestCompletedDir(t *testing.T) {
	dir := t.TempDir()
	if _, ok := CompletedDir(dir); ok {
		t.Error("completed/ should not exist yet")
	}
	if err := os.Mkdir(filepath.Join(dir, CompletedDirName), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path, ok := CompletedDir(dir)
	if !ok {
		t.Fatal("completed/ should exist")
	}
	if filepath.Base(path) != CompletedDirName {
		t.Errorf("path = %q", path)
	}
}
