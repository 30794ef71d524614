package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// StampLayout is the schedule cell format, e.g. 01/22(Thu) 09:00.
const StampLayout = "01/02(Mon) 15:04"

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// FormatStamp renders a resolved timestamp as MM/DD(Day) HH:MM.
func FormatStamp(t time.Time) string {
	return t.Format(StampLayout)
}

// FormatDate renders a calendar date as 2026-02-10 (Tue).
func FormatDate(d domain.Date) string {
	return fmt.Sprintf("%s (%s)", d, d.Weekday().String()[:3])
}

// FormatOffset renders a business-day offset relative to the update date:
// D-13 before it, D+2 after it, D-0 on it.
func FormatOffset(n int) string {
	if n < 0 {
		return fmt.Sprintf("D+%d", -n)
	}
	return fmt.Sprintf("D-%d", n)
}

// StatusPill returns a colored status indicator for project status.
func StatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectActive:
		return StyleGreen.Render("● Active")
	case domain.ProjectArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(status))
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// TableTags renders a stage's table targets using the project's names.
func TableTags(p *domain.Project, tables []domain.TableID) string {
	parts := make([]string, 0, len(tables))
	for _, t := range tables {
		parts = append(parts, TableStyle(t).Render(p.TableName(t)))
	}
	return strings.Join(parts, Dim(", "))
}
