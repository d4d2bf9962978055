// Package shell implements the interactive loop: a dispatcher over the
// task vocabulary, the worker and reviewer subloops, and the post-command
// version-control hook. One Shell is one session; all command output goes
// to its writer so the loop can be driven from tests.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/kokistudios/shib/internal/editor"
	"github.com/kokistudios/shib/internal/plugin"
	"github.com/kokistudios/shib/internal/session"
	"github.com/kokistudios/shib/internal/ui"
	"github.com/kokistudios/shib/internal/vcs"
)

var timeNow = func() time.Time { return time.Now() }

// confirm is swappable in tests; the real one runs a terminal prompt.
var confirm = ui.Confirm

// Shell is one interactive session: selection state, the resolved editor,
// loaded plugins, and the streams the loop reads and writes.
type Shell struct {
	state   *session.State
	editor  editor.Editor
	plugins plugin.Registry
	version string
	tracked bool
	in      *bufio.Reader
	out     io.Writer
}

// Options configures New. Nil streams default to stdin and stdout.
type Options struct {
	Dir     string
	Editor  editor.Editor
	Plugins plugin.Registry
	Version string
	Input   io.Reader
	Output  io.Writer
}

// New builds a Shell rooted at opts.Dir.
func New(opts Options) (*Shell, error) {
	st, err := session.New(opts.Dir)
	if err != nil {
		return nil, err
	}
	in := opts.Input
	if in == nil {
		in = os.Stdin
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	return &Shell{
		state:   st,
		editor:  opts.Editor,
		plugins: opts.Plugins,
		version: opts.Version,
		tracked: vcs.Tracked(st.Dir),
		in:      bufio.NewReader(in),
		out:     out,
	}, nil
}

// Dir returns the session's current working directory.
func (s *Shell) Dir() string { return s.state.Dir }

// RestoreLast reselects the task recorded by the previous session, if the
// snapshot still resolves to a file.
func (s *Shell) RestoreLast() {
	last := session.LoadLast(s.state.Dir)
	if last == "" {
		return
	}
	fmt.Fprintln(s.out, ui.Notice("Found previously selected task, attempting to select"))
	if _, err := s.state.Select(last); err != nil {
		fmt.Fprintln(s.out, err)
	}
}

// SaveLast snapshots the selection for the next session.
func (s *Shell) SaveLast() error {
	return session.SaveLast(s.state.Dir, s.state)
}

// Run prints the banner and drives the read-dispatch loop until the user
// quits or input ends. The selection snapshot is written on the way out.
func (s *Shell) Run() error {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	defer func() {
		signal.Stop(sigc)
		close(sigc)
	}()
	go func() {
		for range sigc {
			fmt.Fprintf(s.out, "\n^C caught - use `q` to quit\n")
		}
	}()

	ui.Welcome(s.out, s.version, s.editor.String())
	for {
		fmt.Fprint(s.out, s.prompt())
		line, err := s.in.ReadString('\n')
		if err != nil && strings.TrimSpace(line) == "" {
			fmt.Fprintln(s.out)
			line = "exit"
		}
		if s.Execute(line) {
			break
		}
	}
	return s.SaveLast()
}

func (s *Shell) prompt() string {
	if s.state.Selected() {
		return ui.Prompt(ui.Filename(*s.state.Selection))
	}
	return ui.Prompt(s.state.Dir)
}

// Execute dispatches one command line and fires the post-command hook.
// It reports whether the loop should stop. Empty lines are no-ops.
func (s *Shell) Execute(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	stop := s.dispatch(line)
	s.postcmd(line)
	return stop
}

func (s *Shell) dispatch(line string) bool {
	if strings.HasPrefix(line, "?") {
		line = strings.TrimSpace("help " + strings.TrimSpace(line[1:]))
	}
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	ui.Debug(">>"+name, "invocation", ui.InvocationID())

	switch name {
	case "new":
		s.cmdNew(rest)
	case "select", "sel", "s":
		s.cmdSelect(rest)
	case "deselect", "stop":
		s.state.Deselect()
	case "priority", "p":
		s.cmdPriority(rest)
	case "tag":
		s.cmdTag(rest)
	case "untag":
		s.cmdUntag(rest)
	case "ls":
		s.cmdLs(rest)
	case "cd":
		s.cmdCd(rest)
	case "pls":
		s.cmdPls(rest)
	case "now":
		s.cmdPls("1")
	case "next":
		s.cmdPls("2")
	case "soon":
		s.cmdPls("3")
	case "later":
		s.cmdPls("4")
	case "someday":
		s.cmdPls("5")
	case "waiting":
		s.cmdPls("6")
	case "work":
		s.cmdWork(rest)
	case "report":
		s.cmdReport(rest)
	case "done", "complete":
		s.cmdComplete(rest)
	case "show":
		s.cmdShow(rest)
	case "edit", "e", "ed":
		s.cmdEdit(rest)
	case "did":
		s.cmdDid(rest)
	case "launch":
		s.cmdLaunch(rest)
	case "review":
		s.cmdReview()
	case "log":
		s.cmdLog(rest)
	case "version":
		fmt.Fprintln(s.out, s.version)
	case "help":
		s.cmdHelp(rest)
	case "exit", "quit", "q":
		fmt.Fprintln(s.out, "Goodbye!")
		return true
	default:
		s.cmdPlugin(name, rest, line)
	}
	return false
}

// postcmd auto-commits the working directory after every command when it
// is git tracked.
func (s *Shell) postcmd(line string) {
	if !s.tracked {
		return
	}
	if err := vcs.AutoCommit(s.state.Dir, vcs.CommitMessage(line)); err != nil {
		fmt.Fprintln(s.out, "ERROR from git:", err)
	}
}

// guardSelection drops the selection when its file no longer exists.
// Review and work rename files behind the main session's back.
func (s *Shell) guardSelection() {
	if !s.state.Selected() {
		return
	}
	if _, err := os.Stat(s.state.Selection.Path); err != nil {
		fmt.Fprintln(s.out, "Selected task was modified and deselected")
		s.state.Deselect()
	}
}

func (s *Shell) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.state.Dir, path)
}
