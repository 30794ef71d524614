package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/backplan/internal/cli/formatter"
	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/spf13/cobra"
)

func newStageCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Manage a project's work stages",
	}

	cmd.AddCommand(
		newStageAddCmd(app),
		newStageListCmd(app),
		newStageUpdateCmd(app),
		newStageRemoveCmd(app),
	)

	return cmd
}

// stageFlags are the stage fields shared by add and update.
type stageFlags struct {
	name      string
	start     int
	end       int
	startTime string
	endTime   string
	order     float64
	parent    string
	topLevel  bool
	tables    []string
}

func (f *stageFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Stage name")
	cmd.Flags().IntVar(&f.start, "start", 0, "Start offset, in business days before the update date")
	cmd.Flags().IntVar(&f.end, "end", 0, "End offset, in business days before the update date")
	cmd.Flags().StringVar(&f.startTime, "start-time", "", "Start clock time HH:MM (default 09:00)")
	cmd.Flags().StringVar(&f.endTime, "end-time", "", "End clock time HH:MM (default 18:00)")
	cmd.Flags().Float64Var(&f.order, "order", 0, "Sort order; 0 places the stage after its siblings")
	cmd.Flags().StringVar(&f.parent, "parent", "", "Parent stage ID or name; makes this a sub-stage")
	cmd.Flags().StringSliceVar(&f.tables, "tables", nil, "Tables to show the stage in (table1,table2,table3)")
}

// apply copies every flag the user set onto s. The parent is resolved
// within the stage's project.
func (f *stageFlags) apply(cmd *cobra.Command, app *App, projectRef string, s *domain.WorkStage) error {
	changed := cmd.Flags().Changed
	if changed("name") {
		s.Name = f.name
	}
	if changed("start") {
		s.StartOffsetDays = f.start
	}
	if changed("end") {
		s.EndOffsetDays = f.end
	}
	if changed("start-time") {
		s.StartTime = f.startTime
	}
	if changed("end-time") {
		s.EndTime = f.endTime
	}
	if changed("order") {
		s.Order = f.order
	}
	if changed("tables") {
		tables, err := parseTables(f.tables)
		if err != nil {
			return err
		}
		s.TableTargets = tables
	}
	if f.topLevel {
		s.ParentStageID = nil
	}
	if changed("parent") {
		parent, err := resolveStage(cmd.Context(), app, projectRef, f.parent)
		if err != nil {
			return fmt.Errorf("parent: %w", err)
		}
		s.ParentStageID = &parent.ID
	}
	return nil
}

func newStageAddCmd(app *App) *cobra.Command {
	var flags stageFlags
	var projectRef string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a work stage to a project",
		Long: `Add a work stage to a project. Offsets count business days back from the
update date. When run in a terminal without --name, an interactive form
collects the stage.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, projectRef)
			if err != nil {
				return err
			}

			s := &domain.WorkStage{ProjectID: p.ID}
			if !cmd.Flags().Changed("name") && app.interactive() {
				if err := runStageForm(cmd, app, p, s); err != nil {
					return err
				}
			} else if err := flags.apply(cmd, app, p.ID, s); err != nil {
				return err
			}

			if err := app.Stages.Create(ctx, s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added stage %s to %s (%s → %s)\n",
				s.Name, p.DisplayID(),
				formatter.FormatOffset(s.StartOffsetDays), formatter.FormatOffset(s.EndOffsetDays))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project short ID or UUID")
	_ = cmd.MarkFlagRequired("project")
	flags.register(cmd)

	return cmd
}

// runStageForm collects a new stage interactively.
func runStageForm(cmd *cobra.Command, app *App, p *domain.Project, s *domain.WorkStage) error {
	stages, err := app.Stages.ListByProject(cmd.Context(), p.ID)
	if err != nil {
		return err
	}
	var parents []*domain.WorkStage
	for _, st := range stages {
		if !st.IsSubStage() {
			parents = append(parents, st)
		}
	}

	values := &stageFormValues{
		Start:  strconv.Itoa(5),
		End:    strconv.Itoa(3),
		Tables: []string{string(domain.Table1)},
	}
	if err := stageForm(p, parents, values).Run(); err != nil {
		return err
	}
	return values.toStage(s)
}

func newStageListCmd(app *App) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's work stages as a tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, projectRef)
			if err != nil {
				return err
			}
			stages, err := app.Stages.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStageTree(p, stages))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project short ID or UUID")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newStageUpdateCmd(app *App) *cobra.Command {
	var flags stageFlags
	var projectRef string

	cmd := &cobra.Command{
		Use:   "update STAGE",
		Short: "Update a work stage",
		Long: `Update a work stage. STAGE is a stage ID, or, with --project, an ID prefix
or the stage name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := resolveStage(ctx, app, projectRef, args[0])
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, app, s.ProjectID, s); err != nil {
				return err
			}
			if err := app.Stages.Update(ctx, s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated stage %s\n", s.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project short ID or UUID, to find the stage by name")
	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.topLevel, "top-level", false, "Detach the stage from its parent")
	cmd.MarkFlagsMutuallyExclusive("parent", "top-level")

	return cmd
}

func newStageRemoveCmd(app *App) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:   "remove STAGE",
		Short: "Remove a work stage and its sub-stages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := resolveStage(ctx, app, projectRef, args[0])
			if err != nil {
				return err
			}
			if err := app.Stages.Delete(ctx, s.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed stage %s\n", s.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project short ID or UUID, to find the stage by name")

	return cmd
}
