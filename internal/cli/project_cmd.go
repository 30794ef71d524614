package cli

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/backplan/internal/cli/formatter"
	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/spf13/cobra"
)

// DefaultHeadsUpOffset is the business-day lead of the heads-up notice when
// a project does not set one.
const DefaultHeadsUpOffset = 15

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectUpdateCmd(app),
		newProjectArchiveCmd(app),
		newProjectUnarchiveCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

// projectFlags are the settings shared by add and update.
type projectFlags struct {
	shortID     string
	name        string
	headsUp     int
	iosReview   int
	noIOSReview bool
	paid        int
	noPaid      bool
	tableNames  map[string]string
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.shortID, "id", "", "Short ID (3-6 uppercase letters + 2-4 digits, e.g. APP01)")
	cmd.Flags().StringVar(&f.name, "name", "", "Project name")
	cmd.Flags().IntVar(&f.headsUp, "heads-up", DefaultHeadsUpOffset, "Heads-up notice, in business days before the update date")
	cmd.Flags().IntVar(&f.iosReview, "ios-review", 0, "Show the iOS review submission date, N business days before the update date")
	cmd.Flags().BoolVar(&f.noIOSReview, "no-ios-review", false, "Hide the iOS review submission date")
	cmd.Flags().IntVar(&f.paid, "paid-product", 0, "Show the paid product registration date, N business days before the update date")
	cmd.Flags().BoolVar(&f.noPaid, "no-paid-product", false, "Hide the paid product registration date")
	cmd.Flags().StringToStringVar(&f.tableNames, "table-name", nil, "Display name per table, e.g. table1=Dev,table2=QA")
	cmd.MarkFlagsMutuallyExclusive("ios-review", "no-ios-review")
	cmd.MarkFlagsMutuallyExclusive("paid-product", "no-paid-product")
}

// apply copies every flag the user set onto p.
func (f *projectFlags) apply(cmd *cobra.Command, p *domain.Project) error {
	changed := cmd.Flags().Changed
	if changed("id") {
		p.ShortID = f.shortID
	}
	if changed("name") {
		p.Name = f.name
	}
	if changed("heads-up") {
		p.HeadsUpOffset = f.headsUp
	}
	if changed("ios-review") {
		v := f.iosReview
		p.ShowIOSReviewDate = true
		p.IOSReviewOffset = &v
	}
	if f.noIOSReview {
		p.ShowIOSReviewDate = false
	}
	if changed("paid-product") {
		v := f.paid
		p.ShowPaidProductDate = true
		p.PaidProductOffset = &v
	}
	if f.noPaid {
		p.ShowPaidProductDate = false
	}
	if len(f.tableNames) > 0 {
		if p.TableNames == nil {
			p.TableNames = make(map[domain.TableID]string)
		}
		for k, v := range f.tableNames {
			t, err := domain.ParseTableID(k)
			if err != nil {
				return err
			}
			if v == "" {
				delete(p.TableNames, t)
				continue
			}
			p.TableNames[t] = v
		}
	}
	return nil
}

func newProjectAddCmd(app *App) *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &domain.Project{Status: domain.ProjectActive, HeadsUpOffset: flags.headsUp}
			if err := flags.apply(cmd, p); err != nil {
				return err
			}
			if err := app.Projects.Create(cmd.Context(), p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context(), all)
			if err != nil {
				return err
			}
			sort.SliceStable(projects, func(i, j int) bool { return projects[i].ShortID < projects[j].ShortID })

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			if len(projects) > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived projects")

	return cmd
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "show ID",
		Aliases: []string{"inspect"},
		Short:   "Show project settings and work stages",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			stages, err := app.Stages.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", formatter.FormatProjectDetail(p, stages))
			return nil
		},
	}
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, p); err != nil {
				return err
			}
			if err := app.Projects.Update(ctx, p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func newProjectArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive ID",
		Short: "Archive a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Archive(ctx, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived project %s\n", p.DisplayID())
			return nil
		},
	}
}

func newProjectUnarchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unarchive ID",
		Short: "Unarchive a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Unarchive(ctx, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unarchived project %s\n", p.DisplayID())
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a project and its work stages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Delete(ctx, p.ID, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s\n", p.DisplayID())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Remove even if the project is not archived")

	return cmd
}
