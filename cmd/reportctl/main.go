package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"timesheet.reports/internal/cli"
	"timesheet.reports/internal/config"
	"timesheet.reports/internal/core"
	"timesheet.reports/internal/ports/messaging"
	"timesheet.reports/internal/ports/repository"
	"timesheet.reports/internal/scheduler"
	"timesheet.reports/pkg/aws"
	"timesheet.reports/pkg/database"
	"timesheet.reports/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger.Setup(cfg.IsLocalDev)

	db, err := database.NewConnection(ctx, database.DSN(cfg))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	awsCfg, err := aws.NewAWSConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("loading AWS config: %w", err)
	}

	repo := repository.NewReportRepository(db)
	mailer := core.NewSESMailer(ses.NewFromConfig(awsCfg), cfg.EmailSender)
	producer := messaging.NewSQSProducer(sqs.NewFromConfig(awsCfg), cfg.ReminderSQSQueueURL)

	app := &cli.App{
		Reports:   core.NewReportService(repo),
		Reminders: core.NewReminderService(repo, mailer, cfg.ReminderConcurrency),
		Enqueuer:  scheduler.NewReminderScheduler(producer, cfg.ReminderSchedule, cfg.ReminderLookbackDays),
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
