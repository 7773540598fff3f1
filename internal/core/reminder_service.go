package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"timesheet.reports/internal/core/model"
	"timesheet.reports/internal/observability"
	"timesheet.reports/internal/ports/repository"
)

const reminderSubject = "Reminder: missing timesheet entries"

// MissedTimesheets lists users with at least one missed day in the lookback window.
type MissedTimesheets struct {
	LookbackDays int
	Window       model.ComplianceWindow
	TotalUsers   int
	Users        []model.DefaulterRecord
}

// ReminderSummary aggregates the per-user outcomes of one reminder run.
type ReminderSummary struct {
	LookbackDays int
	TotalUsers   int
	EmailsSent   int
	EmailsFailed int
	Details      []model.ReminderOutcome
}

type ReminderService struct {
	repo        repository.Repository
	mailer      Mailer
	concurrency int
	now         func() time.Time
}

// NewReminderService creates the reminder orchestrator. concurrency bounds the number
// of in-flight sends; values below one mean sequential dispatch.
func NewReminderService(repo repository.Repository, mailer Mailer, concurrency int) *ReminderService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ReminderService{
		repo:        repo,
		mailer:      mailer,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// MissedTimesheets computes, per user, the days of the trailing window without entries.
func (s *ReminderService) MissedTimesheets(ctx context.Context, lookbackDays int) (*MissedTimesheets, error) {
	if err := ValidateLookbackDays(lookbackDays); err != nil {
		return nil, err
	}
	window := TrailingWindow(s.now(), lookbackDays)

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, UpstreamError(err)
	}
	subs, err := s.repo.ListSubmissionDays(ctx, window.Start, window.End)
	if err != nil {
		return nil, UpstreamError(err)
	}

	missed := DetectMissedDays(window, users, subs)
	return &MissedTimesheets{
		LookbackDays: lookbackDays,
		Window:       window,
		TotalUsers:   len(missed),
		Users:        missed,
	}, nil
}

// CheckAndNotify emails every user with missed days. A failed send is recorded in its
// outcome and never stops the rest of the batch.
func (s *ReminderService) CheckAndNotify(ctx context.Context, lookbackDays int) (*ReminderSummary, error) {
	missed, err := s.MissedTimesheets(ctx, lookbackDays)
	if err != nil {
		return nil, err
	}

	outcomes := make([]model.ReminderOutcome, len(missed.Users))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i, user := range missed.Users {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, user model.DefaulterRecord) {
			defer wg.Done()
			defer func() { <-sem }()
			// Each goroutine owns exactly one slot of outcomes.
			outcomes[i] = s.notify(ctx, user)
		}(i, user)
	}
	wg.Wait()

	summary := &ReminderSummary{
		LookbackDays: lookbackDays,
		TotalUsers:   len(missed.Users),
		Details:      outcomes,
	}
	for _, o := range outcomes {
		if o.Status == model.ReminderSent {
			summary.EmailsSent++
		} else {
			summary.EmailsFailed++
		}
	}

	log.Ctx(ctx).Info().
		Int("lookback_days", lookbackDays).
		Int("total_users", summary.TotalUsers).
		Int("emails_sent", summary.EmailsSent).
		Int("emails_failed", summary.EmailsFailed).
		Msg("Reminder run finished")
	return summary, nil
}

func (s *ReminderService) notify(ctx context.Context, user model.DefaulterRecord) model.ReminderOutcome {
	outcome := model.ReminderOutcome{
		Email:       user.Email,
		MissedDates: user.MissedDates,
	}

	messageID, err := s.mailer.Send(ctx, user.Email, reminderSubject, ReminderBody(user))
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("email", user.Email).Msg("Failed to send reminder")
		outcome.Status = model.ReminderFailed
		outcome.Error = err.Error()
		observability.RecordReminder(string(model.ReminderFailed))
		return outcome
	}

	outcome.Status = model.ReminderSent
	outcome.MessageID = messageID
	observability.RecordReminder(string(model.ReminderSent))
	return outcome
}

// ReminderBody renders the plain text reminder for one user.
func ReminderBody(user model.DefaulterRecord) string {
	var sb strings.Builder
	name := user.Name
	if name == "" {
		name = user.Email
	}
	fmt.Fprintf(&sb, "Hello %s,\n\n", name)
	sb.WriteString("We could not find any timesheet entries for the following dates:\n\n")
	for _, d := range user.MissedDates {
		fmt.Fprintf(&sb, "  - %s (%s)\n", d.Format(model.DateLayout), d.Weekday())
	}
	sb.WriteString("\nPlease log your hours at your earliest convenience.\n")
	return sb.String()
}
