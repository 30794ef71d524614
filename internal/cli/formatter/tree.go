package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one line of a stage tree. Level 0 lines are top-level stages;
// level 1 lines hang under the preceding level 0 line.
type TreeItem struct {
	Title  string
	Label  string // "2" or "2-1"; empty hides it
	Level  int
	IsLast bool // last child of its parent
	Muted  bool
	Detail string // right-aligned badge, e.g. the offsets
}

func treeConnector(item TreeItem) string {
	switch {
	case item.Level == 0:
		return ""
	case item.IsLast:
		return "└─ "
	default:
		return "├─ "
	}
}

// RenderTree lays items out one per line with box-drawing connectors and
// lines up every Detail badge in one column.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	left := make([]string, len(items))
	width := 0
	for i, item := range items {
		title := item.Title
		if item.Muted {
			title = Dim(title)
		}
		if item.Label != "" {
			title = StyleDim.Render(item.Label) + " " + title
		}
		left[i] = StyleDim.Render(treeConnector(item)) + title
		width = max(width, lipgloss.Width(left[i]))
	}

	pad := lipgloss.NewStyle().Width(width)
	var b strings.Builder
	for i, item := range items {
		if item.Detail == "" {
			b.WriteString(left[i])
		} else {
			b.WriteString(pad.Render(left[i]))
			b.WriteString("  ")
			b.WriteString(StyleBlue.Render("[ " + item.Detail + " ]"))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
