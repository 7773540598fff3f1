package cli

import (
	"context"

	"github.com/spf13/cobra"
	"timesheet.reports/internal/core"
)

// ReportService is the part of the report service the CLI needs.
type ReportService interface {
	WeeklyDefaulters(ctx context.Context, rawWeekStart string) (*core.WeeklyDefaulters, error)
}

// ReminderService is the part of the reminder service the CLI needs.
type ReminderService interface {
	MissedTimesheets(ctx context.Context, lookbackDays int) (*core.MissedTimesheets, error)
	CheckAndNotify(ctx context.Context, lookbackDays int) (*core.ReminderSummary, error)
}

// Enqueuer hands a reminder run to the worker queue instead of running it inline.
type Enqueuer interface {
	Enqueue(ctx context.Context, trigger string, lookbackDays int) error
}

// App holds references to all services used by CLI commands.
type App struct {
	Reports   ReportService
	Reminders ReminderService
	Enqueuer  Enqueuer
}

// NewRootCmd creates the top-level "reportctl" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "reportctl",
		Short:         "Operate timesheet compliance reports and reminders",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newDefaultersCmd(app),
		newMissedCmd(app),
		newRemindCmd(app),
	)

	return root
}
