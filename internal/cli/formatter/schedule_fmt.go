package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/backplan/internal/app"
	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/alexanderramin/backplan/internal/export"
)

// FormatScheduleHeader renders the project line, the update date and the
// milestone dates shown above every schedule view.
func FormatScheduleHeader(resp *app.ScheduleResponse) string {
	var b strings.Builder
	p := resp.Project

	b.WriteString(Bold(p.DisplayID()) + "  " + StyleFg.Render(p.Name) + "\n")
	b.WriteString(Dim("Update date  ") + StyleYellowBold.Render(FormatDate(resp.Result.AnchorDate)) + "\n\n")

	for _, m := range export.Milestones(resp.Result) {
		if m.Key == "update" {
			continue
		}
		b.WriteString(fmt.Sprintf("  %s  %s\n", StylePurple.Render("◆"), m.Label+Dim(": ")+FormatDate(m.Date)))
	}
	return b.String()
}

// FormatScheduleTable renders one table as aligned rows. Entries whose end
// precedes their start are flagged in red.
func FormatScheduleTable(p *domain.Project, result *domain.CalculationResult, t domain.TableID) string {
	var b strings.Builder
	b.WriteString(TableStyle(t).Bold(true).Render(p.TableName(t)) + "\n")

	rows := result.Rows(t)
	if len(rows) == 0 {
		b.WriteString(Dim("  No stages in this table.") + "\n")
		return b.String()
	}

	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		name := r.Entry.StageName
		label := r.Label
		if r.Child {
			name = Dim("└ ") + name
			label = Dim(label)
		}
		start, end := FormatStamp(r.Entry.Start), FormatStamp(r.Entry.End)
		if r.Entry.Inverted() {
			end = StyleRed.Render(end + " !")
		}
		cells = append(cells, []string{label, name, start, end})
	}
	b.WriteString(RenderAlignedTable(
		[]string{"#", "STAGE", "START", "END"},
		[]Align{AlignRight},
		cells,
	))
	return b.String()
}

// FormatWarnings renders schedule warnings, or nothing when there are none.
func FormatWarnings(warnings []app.ScheduleWarning) string {
	if len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	for _, w := range warnings {
		b.WriteString(Warn(w.Message) + "\n")
	}
	return b.String()
}

// FormatSchedule renders the header, each requested table and any warnings.
// An empty tables slice renders all three.
func FormatSchedule(resp *app.ScheduleResponse, tables []domain.TableID) string {
	if len(tables) == 0 {
		tables = domain.AllTables
	}

	var b strings.Builder
	b.WriteString(FormatScheduleHeader(resp))
	for _, t := range tables {
		b.WriteString("\n")
		b.WriteString(FormatScheduleTable(resp.Project, resp.Result, t))
	}
	if w := FormatWarnings(resp.Warnings); w != "" {
		b.WriteString("\n" + w)
	}
	return b.String()
}

// FormatResolvedDate renders the answer to a single offset lookup.
func FormatResolvedDate(anchor domain.Date, offset int, got domain.Date) string {
	return fmt.Sprintf("%s %s %s\n",
		StyleYellowBold.Render(FormatOffset(offset)),
		Dim("from "+FormatDate(anchor)+" →"),
		Bold(FormatDate(got)))
}
