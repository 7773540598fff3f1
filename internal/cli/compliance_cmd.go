package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"timesheet.reports/internal/core"
	"timesheet.reports/internal/core/model"
)

func newDefaultersCmd(app *App) *cobra.Command {
	var weekStart string

	cmd := &cobra.Command{
		Use:   "defaulters",
		Short: "List users with no entries in the week starting at --week-start",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Reports.WeeklyDefaulters(cmd.Context(), weekStart)
			if err != nil {
				return cliError(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Week %s to %s: %d defaulter(s) of %d user(s)\n",
				result.WeekStart.Format(model.DateLayout),
				result.WeekEnd.Format(model.DateLayout),
				len(result.Defaulters), result.TotalUsers)
			return printUsers(out, result.Defaulters)
		},
	}

	cmd.Flags().StringVar(&weekStart, "week-start", "", "first day of the week (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("week-start")
	return cmd
}

func newMissedCmd(app *App) *cobra.Command {
	var lookbackDays int

	cmd := &cobra.Command{
		Use:   "missed",
		Short: "List users with days missing from the trailing window",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Reminders.MissedTimesheets(cmd.Context(), lookbackDays)
			if err != nil {
				return cliError(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Window %s to %s: %d user(s) with missing days\n",
				result.Window.Start.Format(model.DateLayout),
				result.Window.End.Format(model.DateLayout),
				len(result.Users))
			return printUsers(out, result.Users)
		},
	}

	cmd.Flags().IntVar(&lookbackDays, "lookback-days", core.DefaultLookbackDays, "days to look back, 1 to 30")
	return cmd
}

func printUsers(out io.Writer, users []model.DefaulterRecord) error {
	if len(users) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USER\tEMAIL\tNAME\tMISSED")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.UserID, u.Email, u.Name, joinDates(u.MissedDates))
	}
	return tw.Flush()
}

func joinDates(dates []time.Time) string {
	if len(dates) == 0 {
		return "-"
	}
	parts := make([]string, len(dates))
	for i, d := range dates {
		parts[i] = d.Format(model.DateLayout)
	}
	return strings.Join(parts, ",")
}

// cliError strips the internal cause from client-facing errors.
func cliError(err error) error {
	switch core.KindOf(err) {
	case core.KindValidation, core.KindNotFound:
		return fmt.Errorf("%s", core.MessageOf(err))
	default:
		return err
	}
}
