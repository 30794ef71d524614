package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/backplan/internal/app"
	"github.com/alexanderramin/backplan/internal/cli/formatter"
	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type scheduleKeyMap struct {
	Next  key.Binding
	Prev  key.Binding
	Gantt key.Binding
	Quit  key.Binding
}

var scheduleKeys = scheduleKeyMap{
	Next:  key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next table")),
	Prev:  key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev table")),
	Gantt: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "gantt")),
	Quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// scheduleViewer is a full-screen browser over one calculated schedule:
// one bubbles table per schedule table, with a gantt toggle.
type scheduleViewer struct {
	resp   *app.ScheduleResponse
	tables []domain.TableID
	active int
	gantt  bool
	grid   table.Model
	width  int
	height int
}

func newScheduleViewer(resp *app.ScheduleResponse, tables []domain.TableID) *scheduleViewer {
	if len(tables) == 0 {
		tables = domain.AllTables
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Foreground(formatter.ColorHeader).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(formatter.ColorDim).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(formatter.ColorFg).
		Background(lipgloss.Color("#504945")).
		Bold(false)

	v := &scheduleViewer{
		resp:   resp,
		tables: tables,
		grid: table.New(
			table.WithColumns(scheduleColumns()),
			table.WithFocused(true),
			table.WithHeight(12),
			table.WithStyles(styles),
		),
	}
	v.loadRows()
	return v
}

func scheduleColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 5},
		{Title: "Stage", Width: 28},
		{Title: "Start", Width: 16},
		{Title: "End", Width: 18},
	}
}

func (v *scheduleViewer) table() domain.TableID { return v.tables[v.active] }

// loadRows refills the grid from the active table.
func (v *scheduleViewer) loadRows() {
	var rows []table.Row
	for _, r := range v.resp.Result.Rows(v.table()) {
		name := r.Entry.StageName
		if r.Child {
			name = "└ " + name
		}
		end := formatter.FormatStamp(r.Entry.End)
		if r.Entry.Inverted() {
			end += " !"
		}
		rows = append(rows, table.Row{r.Label, name, formatter.FormatStamp(r.Entry.Start), end})
	}
	v.grid.SetRows(rows)
	v.grid.SetCursor(0)
}

func (v *scheduleViewer) Init() tea.Cmd { return nil }

func (v *scheduleViewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
		// Header, tab bar, milestones and footer take roughly a dozen lines.
		if h := msg.Height - 14; h > 3 {
			v.grid.SetHeight(h)
		}
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, scheduleKeys.Quit):
			return v, tea.Quit
		case key.Matches(msg, scheduleKeys.Next):
			v.active = (v.active + 1) % len(v.tables)
			v.loadRows()
			return v, nil
		case key.Matches(msg, scheduleKeys.Prev):
			v.active = (v.active + len(v.tables) - 1) % len(v.tables)
			v.loadRows()
			return v, nil
		case key.Matches(msg, scheduleKeys.Gantt):
			v.gantt = !v.gantt
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.grid, cmd = v.grid.Update(msg)
	return v, cmd
}

func (v *scheduleViewer) View() string {
	var b strings.Builder
	b.WriteString(formatter.FormatScheduleHeader(v.resp))
	b.WriteString("\n")
	b.WriteString(v.tabBar())
	b.WriteString("\n\n")

	if v.gantt {
		b.WriteString(formatter.FormatGantt(v.resp.Project, v.resp.Result, v.table(), v.resp.Holidays))
	} else if len(v.grid.Rows()) == 0 {
		b.WriteString(formatter.Dim("No stages in this table.") + "\n")
	} else {
		b.WriteString(v.grid.View() + "\n")
	}

	if w := formatter.FormatWarnings(v.warningsFor(v.table())); w != "" {
		b.WriteString("\n" + w)
	}
	b.WriteString("\n" + formatter.Dim(fmt.Sprintf("%s • %s • %s • %s",
		scheduleKeys.Next.Help().Key+" next table",
		scheduleKeys.Prev.Help().Key+" prev",
		scheduleKeys.Gantt.Help().Key+" gantt",
		scheduleKeys.Quit.Help().Key+" quit")))
	return b.String()
}

func (v *scheduleViewer) tabBar() string {
	parts := make([]string, len(v.tables))
	for i, t := range v.tables {
		label := fmt.Sprintf(" %s (%d) ", v.resp.Project.TableName(t), len(v.resp.Result.Rows(t)))
		if i == v.active {
			parts[i] = formatter.TableStyle(t).Bold(true).Underline(true).Render(label)
		} else {
			parts[i] = formatter.Dim(label)
		}
	}
	return strings.Join(parts, formatter.Dim("│"))
}

func (v *scheduleViewer) warningsFor(t domain.TableID) []app.ScheduleWarning {
	var out []app.ScheduleWarning
	for _, w := range v.resp.Warnings {
		if w.Table == "" || w.Table == t {
			out = append(out, w)
		}
	}
	return out
}
