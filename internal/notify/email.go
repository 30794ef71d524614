package notify

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/alexanderramin/backplan/internal/export"
)

// EmailSubject is the subject line paired with EmailBody.
func EmailSubject(result *domain.CalculationResult, project *domain.Project) string {
	return fmt.Sprintf("[%s] %s release schedule, update %s", project.DisplayID(), project.Name, result.AnchorDate)
}

// EmailBody renders the schedule as plain text suitable for pasting into
// a mail client. tables limits the rows like SlackMessage does.
func EmailBody(result *domain.CalculationResult, project *domain.Project, tables []domain.TableID) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", project.Name, project.DisplayID())
	fmt.Fprintf(&b, "Update date: %s (%s)\n\n", result.AnchorDate, result.AnchorDate.Weekday())

	b.WriteString("Milestones\n")
	for _, m := range export.Milestones(result) {
		fmt.Fprintf(&b, "  - %-26s %s (%s)\n", m.Label, m.Date, m.Date.Weekday().String()[:3])
	}

	for _, t := range selectTables(tables) {
		rows := result.Rows(t)
		if len(rows) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", project.TableName(t))
		for _, row := range rows {
			indent := "  "
			if row.Child {
				indent = "      "
			}
			fmt.Fprintf(&b, "%s%-5s %s: %s\n", indent, row.Label, row.Entry.StageName, formatSpan(row.Entry))
		}
	}
	return b.String()
}
