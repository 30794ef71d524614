package cli

import (
	"fmt"

	"github.com/alexanderramin/backplan/internal/app"
	"github.com/alexanderramin/backplan/internal/cli/formatter"
	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/alexanderramin/backplan/internal/scheduler"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

const (
	viewTable    = "table"
	viewGantt    = "gantt"
	viewCalendar = "calendar"
)

// scheduleFlags select the project, update date and tables of a schedule.
type scheduleFlags struct {
	project string
	date    string
	tables  []string
}

func (f *scheduleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.project, "project", "p", "", "Project short ID or UUID")
	cmd.Flags().StringVarP(&f.date, "date", "d", "", "Update (release) date, YYYY-MM-DD")
	cmd.Flags().StringSliceVar(&f.tables, "tables", nil, "Tables to include (default all)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("date")
}

// calculate runs the schedule for the flags and returns the tables to show.
func (f *scheduleFlags) calculate(cmd *cobra.Command, a *App) (*app.ScheduleResponse, []domain.TableID, error) {
	anchor, err := parseDateFlag("date", f.date)
	if err != nil {
		return nil, nil, err
	}
	tables, err := parseTables(f.tables)
	if err != nil {
		return nil, nil, err
	}
	if len(tables) == 0 {
		tables = domain.AllTables
	}

	req := app.NewScheduleRequest(f.project, anchor)
	if a.Location != nil {
		req.Location = a.Location
	}
	resp, err := a.Schedule.Calculate(cmd.Context(), req)
	if err != nil {
		return nil, nil, err
	}
	return resp, tables, nil
}

func newScheduleCmd(a *App) *cobra.Command {
	var flags scheduleFlags
	var view string
	var interactive bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Calculate a project's schedule for an update date",
		Example: `  backplan schedule -p APP01 -d 2026-02-10
  backplan schedule -p APP01 -d 2026-02-10 --view gantt --tables table1
  backplan schedule -p APP01 -d 2026-02-10 --interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch view {
			case viewTable, viewGantt, viewCalendar:
			default:
				return fmt.Errorf("unknown view %q (expected table, gantt or calendar)", view)
			}

			resp, tables, err := flags.calculate(cmd, a)
			if err != nil {
				return err
			}

			if interactive {
				m := newScheduleViewer(resp, tables)
				_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
				return err
			}

			out := cmd.OutOrStdout()
			switch view {
			case viewGantt:
				fmt.Fprint(out, formatter.FormatScheduleHeader(resp))
				for _, t := range tables {
					fmt.Fprintln(out)
					fmt.Fprint(out, formatter.FormatGantt(resp.Project, resp.Result, t, resp.Holidays))
				}
				if w := formatter.FormatWarnings(resp.Warnings); w != "" {
					fmt.Fprint(out, "\n"+w)
				}
			case viewCalendar:
				fmt.Fprint(out, formatter.FormatScheduleHeader(resp))
				fmt.Fprintln(out)
				fmt.Fprint(out, formatter.FormatCalendar(resp.Project, resp.Result, resp.Holidays, tables))
				if w := formatter.FormatWarnings(resp.Warnings); w != "" {
					fmt.Fprint(out, "\n"+w)
				}
			default:
				fmt.Fprint(out, formatter.FormatSchedule(resp, tables))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&view, "view", viewTable, "Output view: table, gantt or calendar")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Browse the schedule in a full-screen viewer")

	return cmd
}

func newResolveCmd(a *App) *cobra.Command {
	var date string
	var offset int

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Count business days back from a date",
		Long: `Resolve the date that lies OFFSET business days before DATE, skipping
weekends and stored holidays. A negative offset counts forward.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			anchor, err := parseDateFlag("date", date)
			if err != nil {
				return err
			}
			stored, err := a.Holidays.List(cmd.Context(), 0)
			if err != nil {
				return err
			}
			got := scheduler.ResolveBusinessDate(anchor, offset, domain.HolidaySetFrom(stored))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatResolvedDate(anchor, offset, got))
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Anchor date, YYYY-MM-DD")
	cmd.Flags().IntVarP(&offset, "offset", "n", 0, "Business days before the anchor")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}
