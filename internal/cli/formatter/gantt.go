package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const (
	ganttFilled  = "██"
	ganttOffDay  = "░░"
	ganttEmpty   = "  "
	ganttNonWork = "··"
	ganttCell    = 2
)

// GanttRange returns the first and last day a gantt chart of result must
// cover: every entry plus the update date and milestones.
func GanttRange(result *domain.CalculationResult) (domain.Date, domain.Date) {
	from, to := result.HeadsUpDate, result.AnchorDate
	widen := func(d domain.Date) {
		if d.Before(from) {
			from = d
		}
		if d.After(to) {
			to = d
		}
	}
	if d, ok := result.IOSReviewDate.Get(); ok {
		widen(d)
	}
	if d, ok := result.PaidProductDate.Get(); ok {
		widen(d)
	}
	if first, last, ok := result.Span(); ok {
		widen(domain.DateOf(first))
		widen(domain.DateOf(last))
	}
	return from, to
}

// FormatGantt renders one table as a day-per-column bar chart. Weekends and
// holidays are dotted; inside a bar they show as a lighter block since no
// work is expected on them.
func FormatGantt(p *domain.Project, result *domain.CalculationResult, t domain.TableID, holidays domain.HolidaySet) string {
	rows := result.Rows(t)

	var b strings.Builder
	b.WriteString(TableStyle(t).Bold(true).Render(p.TableName(t)) + "\n")
	if len(rows) == 0 {
		b.WriteString(Dim("  No stages in this table.") + "\n")
		return b.String()
	}

	from, to := GanttRange(result)
	var days []domain.Date
	for d := from; !d.After(to); d = d.AddDays(1) {
		days = append(days, d)
	}

	labels := make([]string, len(rows))
	labelWidth := 0
	for i, r := range rows {
		l := r.Label + " " + r.Entry.StageName
		if r.Child {
			l = "  " + l
		}
		labels[i] = l
		if w := lipgloss.Width(l); w > labelWidth {
			labelWidth = w
		}
	}
	pad := func(s string) string {
		return s + strings.Repeat(" ", labelWidth-lipgloss.Width(s)+2)
	}

	b.WriteString(pad("") + ganttMonthLine(days) + "\n")
	b.WriteString(pad("") + ganttDayLine(days, result.AnchorDate) + "\n")

	for i, r := range rows {
		style := TableStyle(t)
		start, end := domain.DateOf(r.Entry.Start), domain.DateOf(r.Entry.End)
		if r.Entry.Inverted() {
			start, end = end, start
			style = StyleRed
		}

		var line strings.Builder
		for _, d := range days {
			off := d.IsWeekend() || holidays.Contains(d)
			inBar := !d.Before(start) && !d.After(end)
			switch {
			case inBar && off:
				line.WriteString(style.Render(ganttOffDay))
			case inBar:
				line.WriteString(style.Render(ganttFilled))
			case off:
				line.WriteString(StyleDim.Render(ganttNonWork))
			default:
				line.WriteString(ganttEmpty)
			}
		}

		label := labels[i]
		if r.Child {
			label = Dim(label)
		}
		b.WriteString(pad(label) + line.String() + "\n")
	}
	return b.String()
}

// ganttMonthLine marks the first column of each month with its short name.
func ganttMonthLine(days []domain.Date) string {
	cells := make([]rune, len(days)*ganttCell)
	for i := range cells {
		cells[i] = ' '
	}
	lastMonth := time.Month(0)
	for i, d := range days {
		if d.Month == lastMonth {
			continue
		}
		lastMonth = d.Month
		name := d.Month.String()[:3]
		for j, r := range name {
			if pos := i*ganttCell + j; pos < len(cells) {
				cells[pos] = r
			}
		}
	}
	return StyleHeader.Render(strings.TrimRight(string(cells), " "))
}

// ganttDayLine prints two-digit day numbers, highlighting the update date.
func ganttDayLine(days []domain.Date, anchor domain.Date) string {
	var b strings.Builder
	for _, d := range days {
		cell := fmt.Sprintf("%02d", d.Day)
		switch {
		case d == anchor:
			b.WriteString(StyleYellowBold.Render(cell))
		case d.IsWeekend():
			b.WriteString(StyleDim.Render(cell))
		default:
			b.WriteString(cell)
		}
	}
	return b.String()
}
