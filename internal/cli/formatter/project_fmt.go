package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// FormatProjectList renders a styled project list inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	if len(projects) == 0 {
		return Dim("No projects yet. Add one with: backplan project add") + "\n"
	}

	headers := []string{"ID", "NAME", "STATUS", "HEADS-UP", "EXTRA DATES"}
	rows := make([][]string, 0, len(projects))

	for _, p := range projects {
		id := p.ShortID
		if strings.TrimSpace(id) == "" {
			id = TruncID(p.ID)
		}

		rows = append(rows, []string{
			id,
			Bold(p.Name),
			StatusPill(p.Status),
			FormatOffset(p.HeadsUpOffset),
			extraDates(p),
		})
	}

	return RenderBox("Projects", RenderTable(headers, rows))
}

func extraDates(p *domain.Project) string {
	var parts []string
	if p.ShowIOSReviewDate && p.IOSReviewOffset != nil {
		parts = append(parts, "iOS "+FormatOffset(*p.IOSReviewOffset))
	}
	if p.ShowPaidProductDate && p.PaidProductOffset != nil {
		parts = append(parts, "paid "+FormatOffset(*p.PaidProductOffset))
	}
	if len(parts) == 0 {
		return Dim("--")
	}
	return strings.Join(parts, Dim(", "))
}

// FormatProjectDetail renders project settings next to its stage tree.
func FormatProjectDetail(p *domain.Project, stages []*domain.WorkStage) string {
	left := buildMetadataPanel(p)
	right := FormatStageTree(p, stages)
	combined := lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)
	return RenderBox("", combined)
}

func buildMetadataPanel(p *domain.Project) string {
	var b strings.Builder

	b.WriteString(StyleBold.Render(p.Name) + "\n\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("STATUS  "), StatusPill(p.Status)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("ID      "), StyleFg.Render(p.ShortID)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("UUID    "), TruncID(p.ID)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("HEADS-UP"), FormatOffset(p.HeadsUpOffset)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("EXTRA   "), extraDates(p)))
	b.WriteString("\n")
	for _, t := range domain.AllTables {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(string(t)), TableStyle(t).Render(p.TableName(t))))
	}
	return b.String()
}

// FormatStageTree renders a project's stages as a tree: top-level stages by
// order with their sub-stages beneath. Each line carries its offsets, clock
// times and the tables it is tagged for.
func FormatStageTree(p *domain.Project, stages []*domain.WorkStage) string {
	if len(stages) == 0 {
		return Dim("No work stages yet.") + "\n"
	}

	var tops []*domain.WorkStage
	children := map[string][]*domain.WorkStage{}
	for _, s := range stages {
		if s.IsSubStage() && s.ParentStageID != nil {
			children[*s.ParentStageID] = append(children[*s.ParentStageID], s)
		} else {
			tops = append(tops, s)
		}
	}
	byOrder := func(list []*domain.WorkStage) {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Order < list[j].Order })
	}
	byOrder(tops)

	var items []TreeItem
	for i, s := range tops {
		items = append(items, stageTreeItem(p, s, fmt.Sprintf("%d", i+1), 0, false))
		kids := children[s.ID]
		byOrder(kids)
		for j, c := range kids {
			items = append(items, stageTreeItem(p, c, fmt.Sprintf("%d-%d", i+1, j+1), 1, j == len(kids)-1))
		}
	}

	return StyleHeader.Render("STAGES") + "\n" + RenderTree(items)
}

func stageTreeItem(p *domain.Project, s *domain.WorkStage, label string, level int, last bool) TreeItem {
	detail := fmt.Sprintf("%s %s → %s %s", FormatOffset(s.StartOffsetDays), s.StartTime, FormatOffset(s.EndOffsetDays), s.EndTime)
	title := s.Name
	if len(s.TableTargets) > 0 {
		title += "  " + TableTags(p, s.TableTargets)
	}
	return TreeItem{
		Title:  title,
		Label:  label,
		Level:  level,
		IsLast: last,
		Muted:  len(s.TableTargets) == 0,
		Detail: detail,
	}
}
