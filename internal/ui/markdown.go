package ui

import "github.com/charmbracelet/glamour"

// RenderMarkdown renders markdown for the terminal, falling back to the
// raw text when rendering fails.
func RenderMarkdown(md string) string {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(100)}
	if colorEnabled {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}
