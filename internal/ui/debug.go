package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"
)

// LogFileName is the debug and crash log written next to the tasks.
const LogFileName = "shibboleth.log"

var (
	fileLog    *log.Logger
	fileHandle *os.File
)

// FileLogOn reports whether a debug log sink is open.
func FileLogOn() bool { return fileHandle != nil }

// EnableFileLog starts appending entries to shibboleth.log in dir at the
// given level, debug when empty.
func EnableFileLog(dir, level string) error {
	lvl := log.DebugLevel
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("unknown log level %q: %w", level, err)
		}
		lvl = parsed
	}
	f, err := os.OpenFile(filepath.Join(dir, LogFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	DisableFileLog()
	fileHandle = f
	fileLog = log.NewWithOptions(f, log.Options{ReportTimestamp: true})
	fileLog.SetLevel(lvl)
	fileLog.Info("logging turned on", "level", lvl.String())
	return nil
}

// DisableFileLog closes the debug sink. Safe to call when none is open.
func DisableFileLog() {
	if fileHandle == nil {
		return
	}
	fileHandle.Close()
	fileHandle = nil
	fileLog = nil
}

// Debug writes a line to the debug sink when one is open.
func Debug(msg string, args ...any) {
	if fileLog != nil {
		fileLog.Debug(msg, args...)
	}
}

// InvocationID returns a fresh id correlating the log lines of one command.
func InvocationID() string {
	return ulid.Make().String()
}

// WriteCrashLog appends a crash report with the stack to shibboleth.log in
// dir, opening its own handle so it works even with logging off.
func WriteCrashLog(dir string, v any, stack []byte) error {
	f, err := os.OpenFile(filepath.Join(dir, LogFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	crash := log.NewWithOptions(f, log.Options{ReportTimestamp: true})
	crash.Error("unhandled panic", "panic", v)
	if _, err := f.Write(stack); err != nil {
		return err
	}
	return nil
}
