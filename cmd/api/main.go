// Entry point for REST API
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"timesheet.reports/internal/api"
	"timesheet.reports/internal/api/handler"
	"timesheet.reports/internal/auth"
	"timesheet.reports/internal/config"
	"timesheet.reports/internal/core"
	"timesheet.reports/internal/export"
	"timesheet.reports/internal/ports/messaging"
	"timesheet.reports/internal/ports/repository"
	"timesheet.reports/internal/scheduler"
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

	shutdownTracer, err := telemetry.InitTracer("reports-api", cfg.OTelEndpoint)
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
	reportService := core.NewReportService(repo)
	reminderService := core.NewReminderService(repo, mailer, cfg.ReminderConcurrency)

	reports := &handler.ReportHandler{
		Service: reportService,
		Exports: export.NewTempStore(cfg.ExportTempDir),
	}
	reminders := &handler.ReminderHandler{Service: reminderService}

	authMiddleware := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}, nil)
	router := api.NewRouter(reports, reminders, authMiddleware)

	// Wrap the router with OpenTelemetry middleware to create spans for each request
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           otelhttp.NewHandler(logger.Middleware(router), "api"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Only one replica may own the schedule, otherwise every replica enqueues its own run.
	var reminderScheduler *scheduler.ReminderScheduler
	if cfg.ReminderSchedulerEnabled {
		producer := messaging.NewSQSProducer(sqs.NewFromConfig(awsCfg), cfg.ReminderSQSQueueURL)
		reminderScheduler = scheduler.NewReminderScheduler(producer, cfg.ReminderSchedule, cfg.ReminderLookbackDays)
		if err := reminderScheduler.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start reminder scheduler")
		}
	} else {
		log.Info().Msg("Reminder scheduler disabled on this instance")
	}

	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("API Service starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	if reminderScheduler != nil {
		reminderScheduler.Stop()
	}

	// In-flight exports get 15 seconds to finish streaming.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
