package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alexanderramin/backplan/internal/cli/formatter"
	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/alexanderramin/backplan/internal/export"
	"github.com/alexanderramin/backplan/internal/notify"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a schedule as a calendar file or message",
	}

	cmd.AddCommand(
		newExportICSCmd(app),
		newExportJIRACmd(app),
		newExportSlackCmd(app),
		newExportEmailCmd(app),
	)

	return cmd
}

func newExportICSCmd(app *App) *cobra.Command {
	var flags scheduleFlags
	var outPath string
	var noMilestones bool

	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Write the schedule as an iCalendar (.ics) file",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, tables, err := flags.calculate(cmd, app)
			if err != nil {
				return err
			}
			data, err := export.ICS(resp.Result, resp.Project, export.ICSOptions{
				Tables:         tables,
				SkipMilestones: noMilestones,
			})
			if errors.Is(err, export.ErrNoEvents) {
				return fmt.Errorf("nothing to export: no stages in %s and milestones are skipped", tableList(tables))
			}
			if err != nil {
				return err
			}

			if outPath == "" || outPath == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", outPath)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&noMilestones, "no-milestones", false, "Leave out the all-day milestone events")

	return cmd
}

func newExportJIRACmd(app *App) *cobra.Command {
	var flags scheduleFlags
	var send bool

	cmd := &cobra.Command{
		Use:   "jira",
		Short: "Print JIRA issue payloads, or create the issues with --send",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, tables, err := flags.calculate(cmd, app)
			if err != nil {
				return err
			}
			cfg := app.JIRAConfig
			cfg.Tables = tables
			issues := notify.JIRAIssues(resp.Result, resp.Project, cfg)

			out := cmd.OutOrStdout()
			if !send {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(issues)
			}
			if app.JIRA == nil {
				return fmt.Errorf("no JIRA connection configured (set jira.base_url, jira.user and jira.token)")
			}

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), fmt.Sprintf("Creating %d issues...", len(issues)))
			}
			defer stop()
			for _, issue := range issues {
				key, err := app.JIRA.CreateIssue(cmd.Context(), issue)
				if err != nil {
					return fmt.Errorf("creating %q: %w", issue.Summary(), err)
				}
				fmt.Fprintf(out, "%s  %s\n", key, issue.Summary())
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&send, "send", false, "Create the issues in JIRA")

	return cmd
}

func newExportSlackCmd(app *App) *cobra.Command {
	var flags scheduleFlags
	var send bool

	cmd := &cobra.Command{
		Use:   "slack",
		Short: "Print the Slack message, or post it with --send",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, tables, err := flags.calculate(cmd, app)
			if err != nil {
				return err
			}
			text := notify.SlackMessage(resp.Result, resp.Project, tables)

			if !send {
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}
			if app.Slack == nil {
				return fmt.Errorf("no Slack webhook configured (set slack.webhook_url)")
			}
			if err := app.Slack.Post(cmd.Context(), text); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Posted to Slack")
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&send, "send", false, "Post the message to the configured webhook")

	return cmd
}

func newExportEmailCmd(app *App) *cobra.Command {
	var flags scheduleFlags

	cmd := &cobra.Command{
		Use:   "email",
		Short: "Print a plain-text email subject and body",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, tables, err := flags.calculate(cmd, app)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Subject: %s\n\n", notify.EmailSubject(resp.Result, resp.Project))
			fmt.Fprint(out, notify.EmailBody(resp.Result, resp.Project, tables))
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	var validateOnly bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a project and its stages from a JSON or TOML template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if validateOnly {
				if err := app.Import.ValidateFile(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s is valid\n", args[0])
				return nil
			}

			result, err := app.Import.ImportProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Imported project %s [%s]: %d stages, %d sub-stages\n",
				result.ProjectName, result.ShortID, result.StageCount, result.SubStageCount)
			return nil
		},
	}

	cmd.Flags().BoolVar(&validateOnly, "validate", false, "Only validate the file")

	return cmd
}

func tableList(tables []domain.TableID) string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
