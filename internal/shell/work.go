package shell

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kokistudios/shib/internal/session"
	"github.com/kokistudios/shib/internal/task"
	"github.com/kokistudios/shib/internal/ui"
	"github.com/kokistudios/shib/internal/vault"
)

// cmdWork gathers the tasks matching every given token and walks them one
// by one. Bare priority keys normalize to their labels, so "work 1 email"
// works the tasks tagged both 1-now and email. No tokens means 1-now.
func (s *Shell) cmdWork(rest string) {
	seen := make(map[string]bool)
	var tokens []string
	for _, tok := range strings.Fields(rest) {
		tok = task.NormalizeToken(tok)
		if !seen[tok] {
			seen[tok] = true
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 {
		tokens = []string{string(task.PriorityNow)}
	}

	tasks, err := vault.Scan(s.state.Dir)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	matched := vault.MatchAll(tasks, tokens)
	if len(matched) == 0 {
		ordered := append([]string(nil), tokens...)
		sort.Strings(ordered)
		fmt.Fprintf(s.out, "No tasks for tag set '%s'\n", strings.Join(ordered, ", "))
		return
	}
	s.workLoop(matched)
}

// workLoop runs its own selection state so the main session's selection
// survives the walk. Unrecognized commands fall through to the main
// dispatcher, acting on the task under the cursor.
func (s *Shell) workLoop(tasks []task.Task) {
	prior := s.state
	ws, err := session.New(prior.Dir)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	s.state = ws
	defer func() {
		s.state = prior
		s.guardSelection()
	}()

	fmt.Fprintf(s.out, "\n%d tasks to work.\n\n", len(tasks))
	s.postcmd("")

	index := 0
	needSelect := true
	for {
		if index >= len(tasks) {
			fmt.Fprintln(s.out, "All done! Good job!")
			return
		}
		// A select issued mid-walk sticks until the cursor moves again.
		if needSelect || !s.state.Selected() {
			if _, err := s.state.Select(tasks[index].Path); err != nil {
				fmt.Fprintln(s.out, err)
				index++
				continue
			}
			needSelect = false
		}
		fmt.Fprint(s.out, ui.WorkPrompt(ui.Filename(*s.state.Selection), index+1, len(tasks)))

		line, err := s.in.ReadString('\n')
		if err != nil && strings.TrimSpace(line) == "" {
			fmt.Fprintln(s.out)
			fmt.Fprintln(s.out, "Goodbye!")
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		advance, stop := false, false
		switch name {
		case "ls":
			for i, t := range tasks {
				marker := ""
				if i == index {
					marker = ui.Harpoon + " "
				}
				fmt.Fprintf(s.out, "%s%s\n", marker, ui.Filename(t))
			}
		case "next", "skip", "deselect":
			advance = true
		case "prev":
			if index > 0 {
				index--
			}
			needSelect = true
		case "done", "complete":
			onCursor := s.state.Selected() && s.state.Selection.Path == tasks[index].Path
			if rest != "" {
				fmt.Fprintln(s.out, "Select a file and try again")
				s.state.Deselect()
			} else if change, cerr := s.state.Complete(); cerr != nil {
				fmt.Fprintln(s.out, cerr)
			} else if onCursor {
				tasks[index] = change.Task
			}
			advance = true
		case "priority", "p":
			onCursor := s.state.Selected() && s.state.Selection.Path == tasks[index].Path
			s.cmdPriority(rest)
			if onCursor && s.state.Selected() {
				tasks[index] = *s.state.Selection
			}
			advance = true
		case "stop", "q", "quit":
			stop = true
		default:
			stop = s.dispatch(line)
		}
		s.postcmd(line)
		if stop {
			return
		}
		if advance {
			index++
			needSelect = true
		}
	}
}
