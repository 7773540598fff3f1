package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"timesheet.reports/internal/ports/messaging"
)

const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// ReminderScheduler enqueues a reminder run on a cron schedule. The batch itself is
// executed by the reminder worker that consumes the queue.
type ReminderScheduler struct {
	cron         *cron.Cron
	publisher    messaging.ReminderPublisher
	schedule     string
	lookbackDays int
	jobID        cron.EntryID
	now          func() time.Time
}

// NewReminderScheduler creates a scheduler. schedule uses the six-field cron format
// with a leading seconds field, e.g. "0 0 9 * * MON-FRI".
func NewReminderScheduler(publisher messaging.ReminderPublisher, schedule string, lookbackDays int) *ReminderScheduler {
	return &ReminderScheduler{
		cron:         cron.New(cron.WithSeconds()),
		publisher:    publisher,
		schedule:     schedule,
		lookbackDays: lookbackDays,
		now:          time.Now,
	}
}

// Start registers the job and starts the cron loop.
func (s *ReminderScheduler) Start() error {
	var err error
	s.jobID, err = s.cron.AddFunc(s.schedule, func() {
		if err := s.RunNow(context.Background(), TriggerSchedule); err != nil {
			log.Error().Err(err).Msg("Scheduled reminder run could not be enqueued")
		}
	})
	if err != nil {
		return fmt.Errorf("error scheduling reminder job: %w", err)
	}

	s.cron.Start()
	log.Info().Str("schedule", s.schedule).Int("lookback_days", s.lookbackDays).Msg("Reminder scheduler started")
	return nil
}

// Stop halts the cron loop and waits for a running job to return.
func (s *ReminderScheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("Reminder scheduler stopped")
}

// Next reports when the job fires next. The zero time means it is not registered.
func (s *ReminderScheduler) Next() time.Time {
	return s.cron.Entry(s.jobID).Next
}

// RunNow enqueues a single reminder run immediately with the configured lookback.
func (s *ReminderScheduler) RunNow(ctx context.Context, trigger string) error {
	return s.Enqueue(ctx, trigger, s.lookbackDays)
}

// Enqueue publishes a reminder run for an explicit lookback.
func (s *ReminderScheduler) Enqueue(ctx context.Context, trigger string, lookbackDays int) error {
	event := messaging.ReminderRunEvent{
		RunID:        uuid.NewString(),
		LookbackDays: lookbackDays,
		RequestedAt:  s.now().UTC(),
		Trigger:      trigger,
	}
	if err := s.publisher.PublishReminderRun(ctx, event); err != nil {
		return fmt.Errorf("publishing reminder run: %w", err)
	}
	log.Ctx(ctx).Info().Str("run_id", event.RunID).Str("trigger", trigger).Msg("Reminder run enqueued")
	return nil
}
