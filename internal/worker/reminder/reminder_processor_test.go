package reminder

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"timesheet.reports/internal/core"
)

type stubRunner struct {
	days int
	err  error
}

func (s *stubRunner) CheckAndNotify(_ context.Context, days int) (*core.ReminderSummary, error) {
	s.days = days
	if s.err != nil {
		return nil, s.err
	}
	return &core.ReminderSummary{LookbackDays: days, TotalUsers: 2, EmailsSent: 1, EmailsFailed: 1}, nil
}

func message(body string, receiveCount string) types.Message {
	msg := types.Message{MessageId: aws.String("m-1"), Body: aws.String(body)}
	if receiveCount != "" {
		msg.Attributes = map[string]string{"ApproximateReceiveCount": receiveCount}
	}
	return msg
}

func TestProcessRunsBatch(t *testing.T) {
	runner := &stubRunner{}
	p := NewProcessor(runner)

	retry, _, err := p.Process(context.Background(), message(`{"runId":"r1","lookbackDays":3,"trigger":"schedule"}`, ""))

	require.NoError(t, err)
	assert.False(t, retry, "partial email failures never retry the batch")
	assert.Equal(t, 3, runner.days)
}

func TestProcessDefaultsLookback(t *testing.T) {
	runner := &stubRunner{}

	_, _, err := NewProcessor(runner).Process(context.Background(), message(`{"runId":"r1"}`, ""))

	require.NoError(t, err)
	assert.Equal(t, core.DefaultLookbackDays, runner.days)
}

func TestProcessDropsMalformedMessages(t *testing.T) {
	p := NewProcessor(&stubRunner{})

	retry, _, err := p.Process(context.Background(), message(`{not json`, ""))
	assert.Error(t, err)
	assert.False(t, retry)

	retry, _, err = p.Process(context.Background(), types.Message{})
	assert.Error(t, err)
	assert.False(t, retry)
}

func TestProcessDropsInvalidLookback(t *testing.T) {
	p := NewProcessor(&stubRunner{err: core.ValidationError("lookbackDays must be between 1 and 30")})

	retry, _, err := p.Process(context.Background(), message(`{"runId":"r1","lookbackDays":90}`, ""))

	assert.Error(t, err)
	assert.False(t, retry)
}

func TestProcessRetriesUpstreamFailures(t *testing.T) {
	p := NewProcessor(&stubRunner{err: core.UpstreamError(errors.New("db down"))})

	retry, delay, err := p.Process(context.Background(), message(`{"runId":"r1","lookbackDays":7}`, "3"))

	assert.Error(t, err)
	assert.True(t, retry)
	assert.Equal(t, int32(80), delay)
}

func TestCalculateBackoff(t *testing.T) {
	assert.Equal(t, int32(20), calculateBackoff(1))
	assert.Equal(t, int32(40), calculateBackoff(2))
	assert.Equal(t, int32(2560), calculateBackoff(8))
	assert.Equal(t, int32(3600), calculateBackoff(9))
	assert.Equal(t, int32(3600), calculateBackoff(40))
}
