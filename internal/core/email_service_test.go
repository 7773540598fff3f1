package core

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSES struct {
	calls int
	last  *ses.SendEmailInput
	err   error
}

func (s *stubSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	s.calls++
	s.last = params
	if s.err != nil {
		return nil, s.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("ses-123")}, nil
}

func TestSESMailerSend(t *testing.T) {
	client := &stubSES{}
	mailer := NewSESMailer(client, "reminders@example.com")

	id, err := mailer.Send(context.Background(), "ana@example.com", "subject", "body")
	require.NoError(t, err)

	assert.Equal(t, "ses-123", id)
	assert.Equal(t, "reminders@example.com", *client.last.Source)
	assert.Equal(t, []string{"ana@example.com"}, client.last.Destination.ToAddresses)
	assert.Equal(t, "body", *client.last.Message.Body.Text.Data)
}

func TestSESMailerOpensCircuit(t *testing.T) {
	client := &stubSES{err: errors.New("throttled")}
	mailer := NewSESMailer(client, "reminders@example.com")

	for i := 0; i < 10; i++ {
		_, err := mailer.Send(context.Background(), "ana@example.com", "s", "b")
		require.Error(t, err)
	}

	_, err := mailer.Send(context.Background(), "ana@example.com", "s", "b")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 10, client.calls)
}
