package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog/log"
	"timesheet.reports/internal/config"
	"timesheet.reports/internal/core"
	"timesheet.reports/internal/ports/repository"
	"timesheet.reports/internal/worker"
	"timesheet.reports/internal/worker/reminder"
	"timesheet.reports/pkg/aws"
	"timesheet.reports/pkg/database"
	"timesheet.reports/pkg/logger"
	"timesheet.reports/pkg/telemetry"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}

	logger.Setup(cfg.IsLocalDev)

	shutdownTracer, err := telemetry.InitTracer("reminder-worker", cfg.OTelEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to init tracer")
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	db, err := database.NewConnection(context.Background(), database.DSN(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening database")
	}
	defer db.Close()
	log.Info().Msg("Successfully connected to the database.")

	awsCfg, err := aws.NewAWSConfig(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to load SDK config")
	}

	repo := repository.NewReportRepository(db)
	mailer := core.NewSESMailer(ses.NewFromConfig(awsCfg), cfg.EmailSender)
	reminderService := core.NewReminderService(repo, mailer, cfg.ReminderConcurrency)
	processor := reminder.NewProcessor(reminderService)

	ctx, cancel := context.WithCancel(context.Background())
	app := worker.NewWorker(sqs.NewFromConfig(awsCfg), cfg.ReminderSQSQueueURL, processor)

	done := make(chan struct{})
	go func() {
		app.Start(ctx)
		close(done)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down worker...")

	// Cancel the context to signal the worker to stop polling.
	cancel()
	<-done

	log.Info().Msg("Worker exited gracefully")
}
