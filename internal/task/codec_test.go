package task

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(TimestampLayout, value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return ts
}

func TestDecode_Full(t *testing.T) {
	got, err := Decode("Write-report[20220101~100000 inbox urgent work].md")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Title != "Write-report" {
		t.Errorf("title = %q, want %q", got.Title, "Write-report")
	}
	if got.Timestamp.Format(TimestampLayout) != "20220101~100000" {
		t.Errorf("timestamp = %v", got.Timestamp)
	}
	if got.Priority != PriorityInbox {
		t.Errorf("priority = %q, want inbox", got.Priority)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "urgent" || got.Tags[1] != "work" {
		t.Errorf("tags = %v, want [urgent work]", got.Tags)
	}
	if got.Ext != "md" {
		t.Errorf("ext = %q, want md", got.Ext)
	}
}

func TestDecode_NoBrackets(t *testing.T) {
	got, err := Decode("randomfile.txt")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Title != "randomfile" {
		t.Errorf("title = %q, want randomfile", got.Title)
	}
	if got.Priority != PriorityNone {
		t.Errorf("priority = %q, want none", got.Priority)
	}
	if len(got.Tags) != 0 {
		t.Errorf("tags = %v, want empty", got.Tags)
	}
	if !got.Timestamp.IsZero() {
		t.Errorf("timestamp = %v, want zero", got.Timestamp)
	}
}

func TestDecode_TimestampOnly(t *testing.T) {
	got, err := Decode("note[20220101~100000].md")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Priority != PriorityNone || len(got.Tags) != 0 {
		t.Errorf("want bare timestamp, got priority %q tags %v", got.Priority, got.Tags)
	}
	if got.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
}

func TestDecode_PriorityShapedTag(t *testing.T) {
	// The priority token is positional; a label after a plain tag stays a tag.
	got, err := Decode("note[20220101~100000 email 1-now].md")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Priority != PriorityNone {
		t.Errorf("priority = %q, want none", got.Priority)
	}
	if !got.HasTag("email") || !got.HasTag("1-now") {
		t.Errorf("tags = %v, want [email 1-now]", got.Tags)
	}
	if !got.Matches("1-now") {
		t.Error("token 1-now should still match via tag membership")
	}
}

func TestDecode_Malformed(t *testing.T) {
	cases := []struct {
		name      string
		wantTitle string
		wantExt   string
	}{
		{"note[not-a-timestamp].md", "note[not-a-timestamp]", "md"},
		{"note[].md", "note[]", "md"},
		{"note[1-now].txt", "note[1-now]", "txt"},
	}
	for _, tc := range cases {
		got, err := Decode(tc.name)
		if !errors.Is(err, ErrDecode) {
			t.Errorf("Decode(%q) err = %v, want ErrDecode", tc.name, err)
		}
		if got.Title != tc.wantTitle {
			t.Errorf("Decode(%q) title = %q, want %q", tc.name, got.Title, tc.wantTitle)
		}
		if got.Ext != tc.wantExt {
			t.Errorf("Decode(%q) ext = %q, want %q", tc.name, got.Ext, tc.wantExt)
		}
		if got.Priority != PriorityNone || len(got.Tags) != 0 || !got.Timestamp.IsZero() {
			t.Errorf("Decode(%q) should carry no metadata", tc.name)
		}
	}
}

func TestEncode(t *testing.T) {
	ts := mustTime(t, "20220101~100000")
	cases := []struct {
		name string
		in   Task
		want string
	}{
		{
			"full",
			Task{Title: "Write-report", Timestamp: ts, Priority: PriorityNow, Tags: []string{"urgent"}, Ext: "md"},
			"Write-report[20220101~100000 1-now urgent].md",
		},
		{
			"spaces become dashes",
			Task{Title: "write the report", Timestamp: ts, Priority: PriorityInbox, Ext: "md"},
			"write-the-report[20220101~100000 inbox].md",
		},
		{
			"no metadata omits bracket",
			Task{Title: "randomfile", Ext: "txt"},
			"randomfile.txt",
		},
		{
			"no extension",
			Task{Title: "README"},
			"README",
		},
		{
			"timestamp alone keeps bracket",
			Task{Title: "note", Timestamp: ts, Ext: "md"},
			"note[20220101~100000].md",
		},
		{
			"priority none omits token",
			Task{Title: "note", Timestamp: ts, Tags: []string{"email"}, Ext: "md"},
			"note[20220101~100000 email].md",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Encode(tc.in); got != tc.want {
				t.Errorf("Encode = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	names := []string{
		"Write-report[20220101~100000 inbox].md",
		"Write-report[20220101~100000 1-now urgent email].md",
		"note[20220101~100000].md",
		"note[20220101~100000 email 1-now].md",
		"note[20220101~100000 done].md",
		"randomfile.txt",
		"README",
		".gitignore",
		"a.b.c",
	}
	for _, name := range names {
		decoded, _ := Decode(name)
		if got := Encode(decoded); got != name {
			t.Errorf("round trip %q -> %q", name, got)
		}
	}
}

func TestRoundTrip_OpaqueFallback(t *testing.T) {
	// Malformed names degrade but still re-encode byte for byte.
	names := []string{
		"note[not-a-timestamp].md",
		"note[].md",
		"weird[1-now]",
	}
	for _, name := range names {
		decoded, err := Decode(name)
		if !errors.Is(err, ErrDecode) {
			t.Fatalf("Decode(%q) err = %v, want ErrDecode", name, err)
		}
		if got := Encode(decoded); got != name {
			t.Errorf("round trip %q -> %q", name, got)
		}
	}
}

func TestRoundTrip_TaskIdentity(t *testing.T) {
	ts := mustTime(t, "20220101~100000")
	orig := Task{Title: "plan-trip", Timestamp: ts, Priority: PriorityNext, Tags: []string{"travel", "family"}, Ext: "md"}
	decoded, err := Decode(Encode(orig))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !decoded.Equal(orig) {
		t.Errorf("decoded %+v != original %+v", decoded, orig)
	}
}

func TestPlace_Collision(t *testing.T) {
	dir := t.TempDir()
	ts := mustTime(t, "20220101~100000")
	tsk := Task{Title: "plan-trip", Timestamp: ts, Priority: PriorityInbox, Ext: "md"}

	path, err := Place(dir, tsk)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if filepath.Base(path) != "plan-trip[20220101~100000 inbox].md" {
		t.Errorf("path = %q", path)
	}

	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err = Place(dir, tsk)
	if !errors.Is(err, ErrCollision) {
		t.Fatalf("Place err = %v, want ErrCollision", err)
	}
	var collision *CollisionError
	if !errors.As(err, &collision) || collision.Path != path {
		t.Errorf("collision path = %v, want %s", err, path)
	}
}

func TestAddTag_Idempotent(t *testing.T) {
	tsk := Task{Title: "note"}
	if !tsk.AddTag("x") {
		t.Error("first add should change the tag list")
	}
	if tsk.AddTag("x") {
		t.Error("second add should be a no-op")
	}
	count := 0
	for _, tag := range tsk.Tags {
		if tag == "x" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("tag x appears %d times, want 1", count)
	}
}

func TestRemoveTag_Absent(t *testing.T) {
	tsk := Task{Title: "note", Tags: []string{"a"}}
	if tsk.RemoveTag("b") {
		t.Error("removing an absent tag should be a no-op")
	}
	if !tsk.RemoveTag("a") {
		t.Error("removing a present tag should report change")
	}
	if len(tsk.Tags) != 0 {
		t.Errorf("tags = %v, want empty", tsk.Tags)
	}
}

func TestIsDone_LegacyTagPosition(t *testing.T) {
	got, err := Decode("old[20220101~100000 email done].md")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Priority == PriorityDone {
		t.Error("done in tag position should not become the priority")
	}
	if !got.IsDone() {
		t.Error("done tag should count as completed")
	}
}

func TestParseKey(t *testing.T) {
	cases := []struct {
		in   string
		want Priority
		ok   bool
	}{
		{"1", PriorityNow, true},
		{"6", PriorityWaiting, true},
		{"inbox", PriorityInbox, true},
		{"1-now", "", false},
		{"done", "", false},
		{"7", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseKey(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseKey(%q) = %q, %v, want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNormalizeToken(t *testing.T) {
	if got := NormalizeToken("1"); got != "1-now" {
		t.Errorf("NormalizeToken(1) = %q", got)
	}
	if got := NormalizeToken("email"); got != "email" {
		t.Errorf("NormalizeToken(email) = %q", got)
	}
}

func TestEqual_TagOrderInsensitive(t *testing.T) {
	ts := mustTime(t, "20220101~100000")
	a := Task{Title: "x", Timestamp: ts, Tags: []string{"one", "two"}}
	b := Task{Title: "x", Timestamp: ts, Tags: []string{"two", "one"}}
	if !a.Equal(b) {
		t.Error("tag order should not affect equality")
	}
}

func TestTitleWords(t *testing.T) {
	if got := TitleWords([]string{"write", "the", "report"}); got != "write-the-report" {
		t.Errorf("TitleWords = %q", got)
	}
	if got := TitleWords([]string{"  padded   words "}); got != "padded-words" {
		t.Errorf("TitleWords = %q", got)
	}
}
