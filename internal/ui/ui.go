// Package ui owns terminal styling, the structured logger, and the prompt
// strings shared by the interactive loops.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/kokistudios/shib/internal/task"
)

// Harpoon is the prompt sigil.
const Harpoon = "⇀"

// Logger is the package-level structured logger.
var Logger *log.Logger

var colorEnabled bool

// Styles, initialized in Init().
var (
	successStyle lipgloss.Style
	warningStyle lipgloss.Style
	errorStyle   lipgloss.Style
	dimStyle     lipgloss.Style
	boldStyle    lipgloss.Style
	noticeStyle  lipgloss.Style
	promptStyle  lipgloss.Style

	priorityStyles map[task.Priority]lipgloss.Style
	fallbackStyle  lipgloss.Style
)

// Init sets up color detection, lipgloss styles, and the structured logger.
// Call this once at CLI startup.
func Init(noColorFlag bool) {
	noColor := noColorFlag || os.Getenv("NO_COLOR") != ""
	colorEnabled = !noColor

	// Pre-set dark background to prevent termenv OSC query on startup
	lipgloss.SetHasDarkBackground(true)

	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	dimStyle = lipgloss.NewStyle().Faint(true)
	boldStyle = lipgloss.NewStyle().Bold(true)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))

	priorityStyles = map[task.Priority]lipgloss.Style{
		task.PriorityInbox:   lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		task.PriorityNow:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		task.PriorityNext:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		task.PrioritySoon:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		task.PriorityLater:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		task.PrioritySomeday: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		task.PriorityWaiting: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	}
	fallbackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	Logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})
	if noColor {
		Logger.SetStyles(log.DefaultStyles())
	}
}

func Bold(s string) string   { return boldStyle.Render(s) }
func Dim(s string) string    { return dimStyle.Render(s) }
func Red(s string) string    { return errorStyle.Render(s) }
func Green(s string) string  { return successStyle.Render(s) }
func Yellow(s string) string { return warningStyle.Render(s) }

// Notice highlights an informational line, bright green like the
// previous-selection banner.
func Notice(s string) string { return noticeStyle.Render(s) }

// PriorityStyle returns the display style for a priority bucket.
func PriorityStyle(p task.Priority) lipgloss.Style {
	if style, ok := priorityStyles[p]; ok {
		return style
	}
	return fallbackStyle
}

// PriorityLabel returns the display name of a priority; the empty priority
// shows as "none".
func PriorityLabel(p task.Priority) string {
	if p == task.PriorityNone {
		return "none"
	}
	return string(p)
}

// StyledPriority renders a priority label in its bucket color.
func StyledPriority(p task.Priority) string {
	return PriorityStyle(p).Render(PriorityLabel(p))
}

// Filename renders a task's filename colorized by its priority.
func Filename(t task.Task) string {
	return PriorityStyle(t.Priority).Render(t.Filename())
}

// Prompt builds the two-line loop prompt pointing at the selection or the
// working directory.
func Prompt(target string) string {
	return fmt.Sprintf("%s%s:%s\n>", Harpoon, promptStyle.Render("shibboleth"), target)
}

// WorkPrompt is the Prompt variant with a position counter in the task
// queue.
func WorkPrompt(target string, pos, total int) string {
	return fmt.Sprintf("%s%s:%s\n%d/%d>", Harpoon, promptStyle.Render("shibboleth"), target, pos, total)
}

// ReviewPrompt is the triage prompt: the task on one line, the position,
// bucket, and key help on the next.
func ReviewPrompt(t task.Task, pos, total int, bucket task.Priority) string {
	return fmt.Sprintf("%s\nReview (%d/%d) %s [?/1-6/d/e/v/l/s/n/q]> ",
		Filename(t), pos, total, StyledPriority(bucket))
}

// Welcome writes the startup banner.
func Welcome(w io.Writer, version, editor string) {
	fmt.Fprintf(w, `
Welcome to Shibboleth %s, the tool designed to be *your*
secret weapon.

Your editor is currently %s. If you don't like that, you
should change or set your EDITOR environment variable.

`, version, editor)
}

// Error prints a styled error message to stderr.
func Error(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("✗"), msg)
}

// Warning prints a styled warning message to stderr.
func Warning(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", warningStyle.Render("⚠"), msg)
}

// Success prints a green check with a message to stderr.
func Success(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", successStyle.Render("✓"), msg)
}
