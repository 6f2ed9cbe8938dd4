package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders page descriptions (markdown)
// using glamour, picking a light or dark style from the terminal background.
// width wraps the output; zero keeps glamour's default.
func NewRenderer(width int) func(string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return func(markdown string) (string, error) { return "", err }
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// NewPlainRenderer renders markdown without colours, for non-interactive output.
func NewPlainRenderer(width int) func(string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle("notty")}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return func(markdown string) (string, error) { return "", err }
	}
	return r.Render
}
