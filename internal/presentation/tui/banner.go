package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the form name and page count as a styled heading.
func PrintBanner(w io.Writer, name string, pages int) {
	out := termenv.NewOutput(w)
	title := out.String(" " + name + " ").Bold().Foreground(out.Color("#ffffff")).Background(out.Color("#818cf8"))
	info := out.String(fmt.Sprintf("%d pages", pages)).Faint()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", title, info)
	fmt.Fprintln(w)
}
