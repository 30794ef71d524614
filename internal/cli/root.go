package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/backplan/internal/notify"
	"github.com/alexanderramin/backplan/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects service.ProjectService
	Stages   service.StageService
	Holidays service.HolidayService
	Schedule service.ScheduleService
	Import   service.ImportService

	// JIRA and Slack are nil until configured.
	JIRA       IssueCreator
	JIRAConfig notify.JIRAConfig
	Slack      MessagePoster

	// Location places stage clock times. Nil means UTC.
	Location *time.Location

	// IsInteractive reports whether stdin is a terminal. Forms and
	// spinners are only shown when it returns true.
	IsInteractive func() bool

	// Setup runs once, after flags are parsed and before any command, to
	// load configuration and wire the fields above. Tests leave it nil.
	Setup func(ctx context.Context, configFile string) error
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "backplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "backplan",
		Short: "Business-day release scheduling",
		Long: `backplan works backwards from a release (update) date to the start and
end of every work stage, skipping weekends and holidays.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Setup == nil {
				return nil
			}
			return app.Setup(cmd.Context(), configFile)
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.backplan.yaml)")
	root.PersistentFlags().String("db", "", "SQLite database path (default ~/.backplan/backplan.db)")
	root.PersistentFlags().StringP("log-level", "l", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newProjectCmd(app),
		newStageCmd(app),
		newHolidayCmd(app),
		newScheduleCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newResolveCmd(app),
	)

	return root
}
