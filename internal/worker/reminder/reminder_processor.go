package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
	"timesheet.reports/internal/core"
	"timesheet.reports/internal/ports/messaging"
)

// Runner executes one reminder batch.
type Runner interface {
	CheckAndNotify(ctx context.Context, lookbackDays int) (*core.ReminderSummary, error)
}

type ReminderProcessor struct {
	runner Runner
}

// NewProcessor sets up a processor for reminder-run jobs.
func NewProcessor(runner Runner) *ReminderProcessor {
	return &ReminderProcessor{runner: runner}
}

// Process runs the reminder batch described by msg. Malformed or invalid jobs are not
// retried; a failed record fetch is retried with exponential backoff. Individual email
// failures are part of the summary and never cause a retry, which would re-send the
// reminders that already went out.
func (p *ReminderProcessor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	if msg.Body == nil {
		return false, 0, fmt.Errorf("empty reminder message")
	}

	var event messaging.ReminderRunEvent
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal reminder event")
		return false, 0, err
	}

	if event.LookbackDays == 0 {
		event.LookbackDays = core.DefaultLookbackDays
	}

	summary, err := p.runner.CheckAndNotify(ctx, event.LookbackDays)
	if err != nil {
		if core.KindOf(err) == core.KindValidation {
			return false, 0, err
		}
		return true, calculateBackoff(receiveCount(msg)), fmt.Errorf("reminder run %s failed: %w", event.RunID, err)
	}

	log.Ctx(ctx).Info().
		Str("run_id", event.RunID).
		Str("trigger", event.Trigger).
		Int("emails_sent", summary.EmailsSent).
		Int("emails_failed", summary.EmailsFailed).
		Msg("Reminder job processed")
	return false, 0, nil
}

func receiveCount(msg types.Message) int {
	raw, ok := msg.Attributes[string(types.MessageSystemAttributeNameApproximateReceiveCount)]
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// calculateBackoff doubles the delay with each delivery, capped at one hour.
func calculateBackoff(retryCount int) int32 {
	backoff := int32(math.Pow(2, float64(retryCount)) * 10)
	if backoff > 3600 || backoff <= 0 {
		return 3600
	}
	return backoff
}
