package sim

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/gwillem/armsim/pkg/robot"
)

// helpMarkdown describes the axis keys of r and every global command.
func helpMarkdown(r *robot.Robot) string {
	var b strings.Builder
	b.WriteString("# Help\n\n## Axes\n\n")
	for _, a := range r.Axes() {
		k := a.Orientation.Keys()
		fmt.Fprintf(&b, "- `%s` / `%s` move %s, `%s` fine speed\n", k.Increment, k.Decrement, a.Name, k.Velocity)
	}
	b.WriteString("\n## Commands\n\n")
	for _, bd := range bindings {
		fmt.Fprintf(&b, "- `%s` %s\n", bd.key, bd.desc)
	}
	b.WriteString("\nDrag the mouse to orbit, scroll to zoom.\n")
	return b.String()
}

// renderHelp renders the help as plain lines for the overlay. The notty style
// keeps escape sequences out of the canvas cells.
func renderHelp(md string, width int) []string {
	out := md
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		if rendered, err := r.Render(md); err == nil {
			out = rendered
		}
	}

	lines := strings.Split(strings.Trim(out, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return lines
}
