package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"

	"github.com/alexanderramin/backplan/internal/cli"
	"github.com/alexanderramin/backplan/internal/config"
	"github.com/alexanderramin/backplan/internal/db"
	"github.com/alexanderramin/backplan/internal/holiday"
	"github.com/alexanderramin/backplan/internal/logging"
	"github.com/alexanderramin/backplan/internal/notify"
	"github.com/alexanderramin/backplan/internal/repository"
	"github.com/alexanderramin/backplan/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var database *sql.DB
	defer func() {
		if database != nil {
			database.Close()
		}
	}()

	app := &cli.App{}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	v := viper.New()
	rootCmd := cli.NewRootCmd(app)
	if err := config.BindFlags(v, rootCmd.PersistentFlags()); err != nil {
		return err
	}

	app.Setup = func(ctx context.Context, configFile string) error {
		if err := config.ReadFile(v, configFile); err != nil {
			return err
		}
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		logger, err := logging.New(os.Stderr, cfg.LogLevel)
		if err != nil {
			return err
		}

		database, err = db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		logger.Debug("database opened", "path", cfg.DBPath)

		// Wire repositories
		projectRepo := repository.NewSQLiteProjectRepo(database)
		stageRepo := repository.NewSQLiteStageRepo(database)
		holidayRepo := repository.NewSQLiteHolidayRepo(database)

		// Wire unit of work for transactional operations
		uow := db.NewSQLiteUnitOfWork(database)
		observer := service.NewLogUseCaseObserver(logger)

		var fetcher holiday.Fetcher
		if cfg.HolidayAPI.ServiceKey != "" {
			fetcher = holiday.NewAPIClient(cfg.HolidayAPI.URL, cfg.HolidayAPI.ServiceKey, holiday.WithLogger(logger))
		}

		app.Projects = service.NewProjectService(projectRepo, observer)
		app.Stages = service.NewStageService(stageRepo, uow, observer)
		app.Holidays = service.NewHolidayService(holidayRepo, fetcher, uow, observer)
		app.Schedule = service.NewScheduleService(projectRepo, stageRepo, holidayRepo, observer)
		app.Import = service.NewImportService(uow, observer)
		app.Location = cfg.Location

		app.JIRAConfig = notify.JIRAConfig{
			ProjectKey: cfg.JIRA.ProjectKey,
			IssueType:  cfg.JIRA.IssueType,
			StartField: cfg.JIRA.StartField,
			DueField:   cfg.JIRA.DueField,
		}
		if cfg.JIRA.BaseURL != "" && cfg.JIRA.Token != "" {
			app.JIRA = notify.NewJIRAClient(cfg.JIRA.BaseURL, cfg.JIRA.User, cfg.JIRA.Token,
				notify.WithLogger(logger, "jira"))
		}
		if cfg.Slack.WebhookURL != "" {
			app.Slack = notify.NewSlackClient(cfg.Slack.WebhookURL, notify.WithLogger(logger, "slack"))
		}
		return nil
	}

	return rootCmd.ExecuteContext(ctx)
}
