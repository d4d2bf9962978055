package shell

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/kokistudios/shib/internal/launch"
	"github.com/kokistudios/shib/internal/plugin"
	"github.com/kokistudios/shib/internal/session"
	"github.com/kokistudios/shib/internal/task"
	"github.com/kokistudios/shib/internal/ui"
	"github.com/kokistudios/shib/internal/vault"
	"github.com/kokistudios/shib/internal/vcs"
)

func (s *Shell) cmdSelect(rest string) {
	if rest == "" {
		fmt.Fprintln(s.out, "No task provided.")
		return
	}
	if _, err := s.state.Select(rest); err != nil {
		fmt.Fprintln(s.out, err)
	}
}

func (s *Shell) cmdPriority(rest string) {
	if !s.state.Selected() {
		fmt.Fprintln(s.out, &session.NoSelectionError{Op: "priority"})
		return
	}
	p, ok := task.ParseKey(rest)
	if !ok {
		if rest != "clear" {
			fmt.Fprintf(s.out, "Unknown priority '%s'\n", rest)
			return
		}
		p = task.PriorityNone
	}
	if _, err := s.state.SetPriority(p); err != nil {
		fmt.Fprintln(s.out, err)
	}
}

func (s *Shell) cmdTag(rest string) {
	if _, err := s.state.AddTags(strings.Fields(rest)); err != nil {
		fmt.Fprintln(s.out, err)
	}
}

func (s *Shell) cmdUntag(rest string) {
	if _, err := s.state.RemoveTags(strings.Fields(rest)); err != nil {
		fmt.Fprintln(s.out, err)
	}
}

func (s *Shell) cmdLs(rest string) {
	dir := s.state.Dir
	if rest != "" {
		dir = s.resolvePath(rest)
	}
	tasks, err := vault.Scan(dir)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(s.out, ui.Filename(t))
	}
}

func (s *Shell) cmdCd(rest string) {
	if err := s.state.ChangeDir(rest); err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	s.tracked = vcs.Tracked(s.state.Dir)
}

// cmdPls lists the tasks matching one priority key, 1-now by default.
// An unknown key warns and falls back to 1-now, matching how the listing
// shortcuts behave.
func (s *Shell) cmdPls(rest string) {
	key := rest
	if key == "" {
		key = "1"
	}
	target, ok := task.ParseKey(key)
	if !ok {
		fmt.Fprintf(s.out, "Unknown priority '%s'\n", key)
		target = task.PriorityNow
	}
	tasks, err := vault.Scan(s.state.Dir)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	for _, t := range vault.Match(tasks, string(target)) {
		fmt.Fprintln(s.out, ui.Filename(t))
	}
}

// cmdReport prints every bucket as "label (count/total)" with its tasks
// indented below, or a single bucket when a target is given. Unknown
// targets warn and fall through to the full report.
func (s *Shell) cmdReport(rest string) {
	tasks, err := vault.Scan(s.state.Dir)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	var target task.Priority
	haveTarget := false
	if rest != "" {
		if rest == "done" {
			target, haveTarget = task.PriorityDone, true
		} else if p, ok := task.ParseKey(rest); ok {
			target, haveTarget = p, true
		} else {
			fmt.Fprintf(s.out, "Unknown priority '%s'\n", rest)
		}
	}
	total := len(tasks)
	for _, b := range vault.GroupByPriority(tasks) {
		if haveTarget && b.Priority != target {
			continue
		}
		fmt.Fprintf(s.out, "%s (%d/%d)\n", ui.PriorityLabel(b.Priority), len(b.Tasks), total)
		for _, t := range b.Tasks {
			fmt.Fprintf(s.out, "\t%s\n", ui.Filename(t))
		}
	}
}

// cmdComplete marks the selection done. The selection is dropped even on
// the notice path so a finished task never lingers in the prompt.
func (s *Shell) cmdComplete(rest string) {
	if !s.state.Selected() || rest != "" {
		fmt.Fprintln(s.out, "Select a file and try again")
		s.state.Deselect()
		return
	}
	if _, err := s.state.Complete(); err != nil {
		fmt.Fprintln(s.out, err)
	}
}

func (s *Shell) cmdShow(rest string) {
	if !s.state.Selected() || rest != "" {
		fmt.Fprintln(s.out, "Select a file and try again")
		return
	}
	s.showFile(s.state.Selection.Path)
}

func (s *Shell) showFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	fence := strings.Repeat("*", 80)
	rendered := ui.RenderMarkdown(string(data))
	fmt.Fprintln(s.out, fence)
	fmt.Fprint(s.out, rendered)
	if !strings.HasSuffix(rendered, "\n") {
		fmt.Fprintln(s.out)
	}
	fmt.Fprintln(s.out, fence)
}

func (s *Shell) cmdEdit(rest string) {
	var path string
	switch {
	case s.state.Selected():
		path = s.state.Selection.Path
	case rest != "":
		path = s.resolvePath(rest)
	default:
		fmt.Fprintln(s.out, "Select a file and try again")
		return
	}
	if err := s.editor.Open(path); err != nil {
		fmt.Fprintln(s.out, err)
	}
}

// cmdNew creates a task file, opens it in the editor, selects it, and
// files it into the inbox. With no title on the line, one is prompted for.
func (s *Shell) cmdNew(rest string) {
	title := rest
	if title == "" {
		fmt.Fprint(s.out, "Title: ")
		line, err := s.in.ReadString('\n')
		if err != nil && strings.TrimSpace(line) == "" {
			fmt.Fprintln(s.out)
			return
		}
		title = strings.TrimSpace(line)
	}
	t := task.Task{
		Title:     task.TitleWords(strings.Fields(title)),
		Timestamp: timeNow(),
		Ext:       "md",
	}
	path, err := task.Place(s.state.Dir, t)
	if err != nil {
		var collision *task.CollisionError
		if errors.As(err, &collision) {
			yes, cerr := confirm("A task file with this name already exists. Select it instead?")
			if cerr == nil && yes {
				if _, serr := s.state.Select(collision.Path); serr != nil {
					fmt.Fprintln(s.out, serr)
				}
			}
			return
		}
		fmt.Fprintln(s.out, err)
		return
	}
	if err := os.WriteFile(path, []byte(fmt.Sprintf("Title: %s\n\n", title)), 0o644); err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	s.state.Deselect()
	if err := s.editor.OpenAtEnd(path); err != nil {
		fmt.Fprintln(s.out, err)
	}
	if _, err := s.state.Select(path); err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	if _, err := s.state.SetPriority(task.PriorityInbox); err != nil {
		fmt.Fprintln(s.out, err)
	}
}

// cmdDid appends a timestamped work-log header to the selection and drops
// into the editor in insert mode below it.
func (s *Shell) cmdDid(rest string) {
	if !s.state.Selected() || rest != "" {
		fmt.Fprintln(s.out, "Select a file and try again")
		return
	}
	path := s.state.Selection.Path
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	_, werr := fmt.Fprintf(f, "\n\n%s\n%s\n\n", timeNow().Format("2006-01-02 15:04:05"), strings.Repeat("-", 19))
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		fmt.Fprintln(s.out, werr)
		return
	}
	if err := s.editor.OpenAppend(path); err != nil {
		fmt.Fprintln(s.out, err)
	}
}

func (s *Shell) cmdLaunch(rest string) {
	var path string
	switch {
	case s.state.Selected():
		path = s.state.Selection.Path
	case rest != "":
		path = s.resolvePath(rest)
	default:
		fmt.Fprintln(s.out, "Select a file and try again")
		return
	}
	if err := launch.Open(path, s.in, s.out); err != nil {
		fmt.Fprintln(s.out, err)
	}
}

func (s *Shell) cmdLog(rest string) {
	action, level, _ := strings.Cut(rest, " ")
	switch action {
	case "on":
		if err := ui.EnableFileLog(s.state.Dir, strings.TrimSpace(level)); err != nil {
			fmt.Fprintln(s.out, err)
		}
	case "off":
		ui.DisableFileLog()
	}
	if ui.FileLogOn() {
		fmt.Fprintln(s.out, "Logging is ON - writing to "+ui.LogFileName)
	} else {
		fmt.Fprintln(s.out, "Logging is OFF")
	}
}

func (s *Shell) cmdPlugin(name, rest, line string) {
	p, ok := s.plugins[name]
	if !ok {
		fmt.Fprintf(s.out, "*** Unknown syntax: %s\n", line)
		return
	}
	ctx := plugin.Context{Dir: s.state.Dir, Version: s.version}
	if s.state.Selected() {
		ctx.Selection = s.state.Selection.Filename()
	}
	res, err := p.Run(ctx, strings.Fields(rest))
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	s.applyPluginResult(res)
}

// applyPluginResult folds a plugin's requested state changes back into the
// session: directory first, then deselect, then select.
func (s *Shell) applyPluginResult(res *plugin.Result) {
	if res == nil {
		return
	}
	if res.Dir != "" {
		if err := s.state.ChangeDir(res.Dir); err != nil {
			fmt.Fprintln(s.out, err)
		} else {
			s.tracked = vcs.Tracked(s.state.Dir)
		}
	}
	if res.Deselect {
		s.state.Deselect()
	}
	if res.Select != "" {
		if _, err := s.state.Select(res.Select); err != nil {
			fmt.Fprintln(s.out, err)
		}
	}
}

var helpAliases = map[string]string{
	"sel":      "select",
	"s":        "select",
	"p":        "priority",
	"e":        "edit",
	"ed":       "edit",
	"complete": "done",
	"stop":     "deselect",
	"quit":     "exit",
	"q":        "exit",
	"?":        "help",
}

var helpTopics = map[string]string{
	"new":      "Create a new task with the provided title, or ask for one, and select it.",
	"select":   "Select a task by filename, list position, or name fragment.",
	"deselect": "De-select the active task.",
	"priority": "Set the priority of the active task: 1-6, inbox, or clear.",
	"tag":      "Add the space-delimited tag(s) to the current task.",
	"untag":    "Remove the space-delimited tag(s) from the current task.",
	"ls":       "Show tasks in the current (or provided) directory.",
	"cd":       "Change to a new directory.",
	"pls":      "Priority list - show tasks with the specified priority.",
	"now":      "Show tasks with a priority of 1-now.",
	"next":     "Show tasks with a priority of 2-next.",
	"soon":     "Show tasks with a priority of 3-soon.",
	"later":    "Show tasks with a priority of 4-later.",
	"someday":  "Show tasks with a priority of 5-someday.",
	"waiting":  "Show tasks with a priority of 6-waiting.",
	"work":     "Work the tasks matching the given tokens, default 1-now.",
	"report":   "Show a breakdown of tasks by priority.",
	"done":     "Mark the current task as complete and move it to completed/.",
	"show":     "Show the body of the current task.",
	"edit":     "Open the current task in the configured editor.",
	"did":      "Add a date/time entry to the end of the current task.",
	"launch":   "Open the URL headers of the current task in the browser.",
	"review":   "Review and quickly update the priority of your tasks.",
	"log":      "log on [level] starts writing shibboleth.log; log off stops.",
	"version":  "Display the shibboleth version.",
	"help":     "Display help for a command.",
	"exit":     "Quit.",
}

func (s *Shell) cmdHelp(rest string) {
	if rest != "" {
		name := rest
		if canon, ok := helpAliases[name]; ok {
			name = canon
		}
		if topic, ok := helpTopics[name]; ok {
			fmt.Fprintln(s.out, topic)
		} else {
			fmt.Fprintf(s.out, "*** No help on %s\n", rest)
		}
		return
	}
	names := make([]string, 0, len(helpTopics))
	for name := range helpTopics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(s.out, "Documented commands (type help <topic>):")
	fmt.Fprintln(s.out, strings.Repeat("=", 40))
	for i := 0; i < len(names); i += 6 {
		end := i + 6
		if end > len(names) {
			end = len(names)
		}
		fmt.Fprintln(s.out, strings.Join(names[i:end], "  "))
	}
	fmt.Fprintln(s.out)
}
