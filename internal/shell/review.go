package shell

import (
	"fmt"
	"strings"

	"github.com/kokistudios/shib/internal/launch"
	"github.com/kokistudios/shib/internal/session"
	"github.com/kokistudios/shib/internal/task"
	"github.com/kokistudios/shib/internal/ui"
	"github.com/kokistudios/shib/internal/vault"
)

const reviewHelp = `
Review Commands
===============
?   help
e   edit task
v   view/show task
l   launch URLs
1-6 set task priority
s   skip/do not modify task
d   mark task as done
n   next priority
q   quit review
`

// cmdReview walks the non-empty priority buckets in reverse enumeration
// order, least urgent first, prompting for a triage action on each task.
// The bucket contents are a snapshot from the start of the review.
func (s *Shell) cmdReview() {
	tasks, err := vault.Scan(s.state.Dir)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	all := vault.GroupByPriority(tasks)
	var queue []vault.Bucket
	for i := len(all) - 1; i >= 0; i-- {
		if len(all[i].Tasks) > 0 {
			queue = append(queue, all[i])
		}
	}
	if len(queue) == 0 {
		fmt.Fprintln(s.out, "Nothing to review")
		return
	}
	rs, err := session.New(s.state.Dir)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	s.reviewLoop(rs, queue)
	s.guardSelection()
}

func (s *Shell) reviewLoop(rs *session.State, queue []vault.Bucket) {
	bi, ti := 0, 0
	advance := func() bool {
		ti++
		if ti >= len(queue[bi].Tasks) {
			ti = 0
			bi++
		}
		return bi < len(queue)
	}
	for {
		bucket := queue[bi]
		cur := bucket.Tasks[ti]
		fmt.Fprint(s.out, ui.ReviewPrompt(cur, ti+1, len(bucket.Tasks), bucket.Priority))

		line, err := s.in.ReadString('\n')
		if err != nil && strings.TrimSpace(line) == "" {
			fmt.Fprintln(s.out)
			return
		}
		switch line = strings.TrimSpace(line); line {
		case "":
		case "?", "help":
			fmt.Fprintln(s.out, reviewHelp)
		case "e":
			if err := s.editor.Open(cur.Path); err != nil {
				fmt.Fprintln(s.out, err)
			}
		case "v":
			s.showFile(cur.Path)
		case "l":
			if err := launch.Open(cur.Path, s.in, s.out); err != nil {
				fmt.Fprintln(s.out, err)
			}
		case "1", "2", "3", "4", "5", "6":
			p, _ := task.ParseKey(line)
			s.reviewMutate(rs, cur, func() error {
				_, err := rs.SetPriority(p)
				return err
			})
			if !advance() {
				return
			}
		case "d":
			s.reviewMutate(rs, cur, func() error {
				_, err := rs.Complete()
				return err
			})
			if !advance() {
				return
			}
		case "s":
			if !advance() {
				return
			}
		case "n":
			bi++
			ti = 0
			if bi >= len(queue) {
				return
			}
		case "q":
			fmt.Fprintln(s.out, "Quitting review")
			return
		default:
			fmt.Fprintf(s.out, "*** Unknown syntax: %s\n", line)
		}
	}
}

// reviewMutate selects the task under review into the throwaway state and
// applies op to it. Failures report and leave the walk running.
func (s *Shell) reviewMutate(rs *session.State, cur task.Task, op func() error) {
	if _, err := rs.Select(cur.Path); err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	if err := op(); err != nil {
		fmt.Fprintln(s.out, err)
	}
}
