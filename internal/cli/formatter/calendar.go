package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/alexanderramin/backplan/internal/export"
)

// calendarEvent is one line in the agenda printed under a month grid.
type calendarEvent struct {
	date  domain.Date
	text  string
	order int
}

// FormatCalendar renders a Sunday-first month grid for every month the
// schedule touches, followed by that month's agenda. Holidays are red,
// weekends dim, stage boundaries bold and milestones purple.
func FormatCalendar(p *domain.Project, result *domain.CalculationResult, holidays domain.HolidaySet, tables []domain.TableID) string {
	if len(tables) == 0 {
		tables = domain.AllTables
	}

	events := calendarEvents(p, result, tables)
	marked := make(map[domain.Date]bool, len(events))
	for _, e := range events {
		marked[e.date] = true
	}
	milestones := map[domain.Date]bool{}
	for _, m := range export.Milestones(result) {
		milestones[m.Date] = true
	}

	from, to := GanttRange(result)
	var b strings.Builder
	for m := domain.NewDate(from.Year, from.Month, 1); !m.After(to); m = domain.NewDate(m.Year, m.Month+1, 1) {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(formatMonth(m, result.AnchorDate, holidays, marked, milestones))

		for _, e := range events {
			if e.date.Year == m.Year && e.date.Month == m.Month {
				b.WriteString(fmt.Sprintf("  %s  %s\n", Dim(fmt.Sprintf("%02d/%02d", int(e.date.Month), e.date.Day)), e.text))
			}
		}
	}
	return b.String()
}

func formatMonth(first, anchor domain.Date, holidays domain.HolidaySet, marked, milestones map[domain.Date]bool) string {
	var b strings.Builder
	title := fmt.Sprintf("%s %d", first.Month, first.Year)
	b.WriteString(StyleHeader.Render(title) + "\n")
	b.WriteString(Dim(" Su Mo Tu We Th Fr Sa") + "\n")

	b.WriteString(strings.Repeat("   ", int(first.Weekday())))
	for d := first; d.Month == first.Month; d = d.AddDays(1) {
		cell := fmt.Sprintf("%3d", d.Day)
		switch {
		case d == anchor:
			cell = StyleYellowBold.Render(cell)
		case milestones[d]:
			cell = StylePurple.Render(cell)
		case holidays.Contains(d):
			cell = StyleRed.Render(cell)
		case marked[d]:
			cell = StyleBold.Render(cell)
		case d.IsWeekend():
			cell = StyleDim.Render(cell)
		}
		b.WriteString(cell)
		if d.Weekday() == time.Saturday {
			b.WriteString("\n")
		}
	}
	if last := domain.NewDate(first.Year, first.Month+1, 0); last.Weekday() != time.Saturday {
		b.WriteString("\n")
	}
	return b.String()
}

func calendarEvents(p *domain.Project, result *domain.CalculationResult, tables []domain.TableID) []calendarEvent {
	var events []calendarEvent
	for _, m := range export.Milestones(result) {
		events = append(events, calendarEvent{date: m.Date, text: StylePurple.Render("◆ " + m.Label)})
	}
	for _, t := range tables {
		for _, r := range result.Rows(t) {
			name := fmt.Sprintf("[%s] %s %s", p.TableName(t), r.Label, r.Entry.StageName)
			style := TableStyle(t)
			events = append(events,
				calendarEvent{date: domain.DateOf(r.Entry.Start), text: style.Render("▶ ") + name + Dim(" starts "+r.Entry.Start.Format("15:04")), order: 1},
				calendarEvent{date: domain.DateOf(r.Entry.End), text: style.Render("■ ") + name + Dim(" ends "+r.Entry.End.Format("15:04")), order: 2},
			)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		if c := events[i].date.Compare(events[j].date); c != 0 {
			return c < 0
		}
		return events[i].order < events[j].order
	})
	return events
}
