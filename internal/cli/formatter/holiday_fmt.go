package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/backplan/internal/app"
	"github.com/alexanderramin/backplan/internal/domain"
)

// FormatHolidayList renders stored holidays with their source.
func FormatHolidayList(holidays []*domain.Holiday) string {
	if len(holidays) == 0 {
		return Dim("No holidays stored.") + "\n"
	}

	rows := make([][]string, 0, len(holidays))
	for _, h := range holidays {
		source := Dim("imported")
		if h.IsManual {
			source = StyleYellow.Render("manual")
		}
		rows = append(rows, []string{FormatDate(h.Date), h.Name, source})
	}
	return RenderTable([]string{"DATE", "NAME", "SOURCE"}, rows)
}

// FormatHolidayImport summarizes what an import or sync changed.
func FormatHolidayImport(source string, r *app.HolidayImportResult) string {
	parts := []string{
		StyleGreen.Render(fmt.Sprintf("%d added", r.Added)),
		StyleBlue.Render(fmt.Sprintf("%d updated", r.Updated)),
		Dim(fmt.Sprintf("%d unchanged", r.Unchanged)),
	}
	if r.Skipped > 0 {
		parts = append(parts, StyleYellow.Render(fmt.Sprintf("%d kept manual", r.Skipped)))
	}
	return fmt.Sprintf("%s %s\n", Bold(source+":"), strings.Join(parts, Dim(", ")))
}
