package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// LastFileName is the per-directory snapshot of the previous session's
// selection, written on exit and offered back on startup.
const LastFileName = ".last.shib"

type lastState struct {
	Selection string    `yaml:"selection,omitempty"`
	SavedAt   time.Time `yaml:"saved_at"`
}

// SaveLast snapshots the current selection into dir. A state with no
// selection removes any stale snapshot instead.
func SaveLast(dir string, s *State) error {
	path := filepath.Join(dir, LastFileName)
	if s.Selection == nil {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("clearing %s: %w", path, err)
		}
		return nil
	}
	data, err := yaml.Marshal(lastState{
		Selection: filepath.Base(s.Selection.Path),
		SavedAt:   timeNow(),
	})
	if err != nil {
		return fmt.Errorf("encoding %s: %w", LastFileName, err)
	}
	return atomicWriteFile(path, data)
}

// LoadLast returns the filename recorded by the previous session, or ""
// when there is no snapshot or it is unreadable.
func LoadLast(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, LastFileName))
	if err != nil {
		return ""
	}
	var last lastState
	if err := yaml.Unmarshal(data, &last); err != nil {
		return ""
	}
	return last.Selection
}

// atomicWriteFile writes via a temp file and rename so a crash mid-write
// never leaves a truncated snapshot.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".tmp-%d", time.Now().UnixNano()))
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
