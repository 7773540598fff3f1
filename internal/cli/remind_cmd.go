package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"timesheet.reports/internal/core"
	"timesheet.reports/internal/scheduler"
)

func newRemindCmd(app *App) *cobra.Command {
	var (
		lookbackDays int
		enqueue      bool
	)

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Email every user with missing days in the trailing window",
		Long: "Runs a reminder batch inline and prints one line per user. With --enqueue the\n" +
			"batch is handed to the reminder worker queue instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if enqueue {
				if app.Enqueuer == nil {
					return errors.New("no reminder queue configured")
				}
				if err := core.ValidateLookbackDays(lookbackDays); err != nil {
					return cliError(err)
				}
				if err := app.Enqueuer.Enqueue(cmd.Context(), scheduler.TriggerManual, lookbackDays); err != nil {
					return err
				}
				fmt.Fprintf(out, "Reminder run enqueued (lookback %d days)\n", lookbackDays)
				return nil
			}

			summary, err := app.Reminders.CheckAndNotify(cmd.Context(), lookbackDays)
			if err != nil {
				return cliError(err)
			}

			fmt.Fprintf(out, "Reminder check completed: %d user(s), %d sent, %d failed\n",
				summary.TotalUsers, summary.EmailsSent, summary.EmailsFailed)
			if len(summary.Details) == 0 {
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "EMAIL\tSTATUS\tMISSED\tDETAIL")
			for _, d := range summary.Details {
				detail := d.MessageID
				if d.Error != "" {
					detail = d.Error
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Email, d.Status, joinDates(d.MissedDates), detail)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&lookbackDays, "lookback-days", core.DefaultLookbackDays, "days to look back, 1 to 30")
	cmd.Flags().BoolVar(&enqueue, "enqueue", false, "publish the run to the worker queue instead of running it here")
	return cmd
}
