package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSQS struct {
	input *sqs.SendMessageInput
	err   error
}

func (s *stubSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	s.input = in
	return &sqs.SendMessageOutput{}, s.err
}

func TestPublishReminderRun(t *testing.T) {
	client := &stubSQS{}
	p := NewSQSProducer(client, "https://sqs.local/reminders")
	event := ReminderRunEvent{RunID: "run-1", LookbackDays: 7, RequestedAt: time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC), Trigger: "manual"}

	require.NoError(t, p.PublishReminderRun(context.Background(), event))

	require.NotNil(t, client.input)
	assert.Equal(t, "https://sqs.local/reminders", *client.input.QueueUrl)
	assert.Equal(t, eventTypeReminderRun, *client.input.MessageAttributes["EventType"].StringValue)

	var got ReminderRunEvent
	require.NoError(t, json.Unmarshal([]byte(*client.input.MessageBody), &got))
	assert.Equal(t, event, got)
}

func TestPublishReminderRunSendFailure(t *testing.T) {
	p := NewSQSProducer(&stubSQS{err: errors.New("access denied")}, "q")

	err := p.PublishReminderRun(context.Background(), ReminderRunEvent{RunID: "run-1"})

	assert.ErrorContains(t, err, "failed to send message")
	assert.ErrorContains(t, err, "access denied")
}
