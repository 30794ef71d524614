package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alexanderramin/backplan/internal/cli/formatter"
	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/spf13/cobra"
)

func newHolidayCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holiday",
		Short: "Manage the holiday calendar",
	}

	cmd.AddCommand(
		newHolidayAddCmd(app),
		newHolidayListCmd(app),
		newHolidayRemoveCmd(app),
		newHolidayImportCSVCmd(app),
		newHolidaySyncCmd(app),
	)

	return cmd
}

func newHolidayAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add DATE NAME...",
		Short: "Add a manual holiday (never overwritten by imports)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := domain.ParseDate(args[0])
			if err != nil {
				return err
			}
			h, err := app.Holidays.Add(cmd.Context(), d, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added holiday %s %s\n", formatter.FormatDate(h.Date), h.Name)
			return nil
		},
	}
}

func newHolidayListCmd(app *App) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored holidays",
		RunE: func(cmd *cobra.Command, args []string) error {
			holidays, err := app.Holidays.List(cmd.Context(), year)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHolidayList(holidays))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Only list this year (default all)")

	return cmd
}

func newHolidayRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove DATE",
		Short: "Remove the holiday on DATE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := domain.ParseDate(args[0])
			if err != nil {
				return err
			}
			if err := app.Holidays.Remove(cmd.Context(), d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed holiday %s\n", formatter.FormatDate(d))
			return nil
		},
	}
}

func newHolidayImportCSVCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import-csv FILE",
		Short: "Import holidays from a CSV file (#,name,date)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			result, err := app.Holidays.ImportCSV(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHolidayImport("Imported "+args[0], result))
			return nil
		},
	}
}

func newHolidaySyncCmd(app *App) *cobra.Command {
	var years []int

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch public holidays from the open data API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(years) == 0 {
				years = []int{time.Now().Year()}
			}
			for _, y := range years {
				stop := func() {}
				if app.interactive() {
					stop = formatter.StartSpinner(cmd.ErrOrStderr(), fmt.Sprintf("Fetching %d holidays...", y))
				}
				result, err := app.Holidays.SyncFromAPI(cmd.Context(), y)
				stop()
				if err != nil {
					return fmt.Errorf("syncing %d: %w", y, err)
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHolidayImport(fmt.Sprintf("Synced %d", y), result))
			}
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&years, "year", nil, "Year(s) to fetch (default the current year)")

	return cmd
}
