package task

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// TimestampLayout is the wire format of the bracket timestamp.
const TimestampLayout = "20060102~150405"

var (
	ErrDecode    = errors.New("undecodable filename")
	ErrCollision = errors.New("target filename already exists")
)

// DecodeError reports bracket content that could not be parsed. Decode
// degrades the task to an opaque title, so the error is informational.
type DecodeError struct {
	Name   string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode %q: %s", e.Name, e.Reason)
}

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// CollisionError reports that encoding would land on an existing file. The
// caller decides whether to suffix, reject, or reuse.
type CollisionError struct {
	Path string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("file already exists: %s", e.Path)
}

func (e *CollisionError) Is(target error) bool { return target == ErrCollision }

var (
	bracketPattern = regexp.MustCompile(`^(.*?)\[(.*?)\](?:\.(.*))?$`)
	plainPattern   = regexp.MustCompile(`^([^.]*)(?:\.(.*))?$`)
)

// Decode parses a filename into a Task. A name without brackets is valid
// and carries no metadata. Malformed bracket content (empty, or a first
// token that is not a YYYYMMDD~HHMMSS timestamp) is non-fatal: the returned
// task treats the whole stem as an opaque title, and the accompanying
// DecodeError says why. The returned Task is usable either way.
func Decode(filename string) (Task, error) {
	if m := bracketPattern.FindStringSubmatch(filename); m != nil {
		t, reason := decodeBracket(m[1], m[2], m[3])
		if reason == "" {
			return t, nil
		}
		return opaque(filename), &DecodeError{Name: filename, Reason: reason}
	}
	return opaque(filename), nil
}

func decodeBracket(title, meta, ext string) (Task, string) {
	fields := strings.Fields(meta)
	if len(fields) == 0 {
		return Task{}, "empty bracket"
	}
	ts, err := time.Parse(TimestampLayout, fields[0])
	if err != nil {
		return Task{}, fmt.Sprintf("bad timestamp %q", fields[0])
	}

	t := Task{Title: title, Timestamp: ts, Ext: ext}
	rest := fields[1:]
	if len(rest) > 0 && IsLabel(rest[0]) {
		t.Priority = Priority(rest[0])
		rest = rest[1:]
	}
	for _, tag := range rest {
		t.AddTag(tag)
	}
	return t, ""
}

// opaque splits at the first dot only, so the stem survives re-encoding
// byte for byte.
func opaque(filename string) Task {
	m := plainPattern.FindStringSubmatch(filename)
	if m == nil {
		return Task{Title: filename}
	}
	return Task{Title: m[1], Ext: m[2]}
}

// Encode serializes a task to its filename: title with spaces dashed, then
// [timestamp priority tag...] when any metadata is present, then the
// extension. Priority None omits its token; a task with no metadata at all
// omits the bracket. Metadata without a timestamp does not decode back
// losslessly, so mutations stamp the clock before encoding.
func Encode(t Task) string {
	var b strings.Builder
	b.WriteString(strings.ReplaceAll(t.Title, " ", "-"))

	var meta []string
	if !t.Timestamp.IsZero() {
		meta = append(meta, t.Timestamp.Format(TimestampLayout))
	}
	if t.Priority != PriorityNone {
		meta = append(meta, string(t.Priority))
	}
	meta = append(meta, t.Tags...)
	if len(meta) > 0 {
		b.WriteString("[")
		b.WriteString(strings.Join(meta, " "))
		b.WriteString("]")
	}

	if t.Ext != "" {
		b.WriteString(".")
		b.WriteString(t.Ext)
	}
	return b.String()
}

// Place resolves the task's encoded name inside dir and signals
// CollisionError when that file already exists. Nothing is written.
func Place(dir string, t Task) (string, error) {
	path := filepath.Join(dir, Encode(t))
	if _, err := os.Stat(path); err == nil {
		return "", &CollisionError{Path: path}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("checking %s: %w", path, err)
	}
	return path, nil
}
