package core

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Mailer is the outbound notification transport.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) (messageID string, err error)
}

// SESClient is the subset of the SES API the mailer needs.
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESMailer struct {
	client SESClient
	sender string
	cb     *gobreaker.CircuitBreaker
}

// NewSESMailer builds an SES backed mailer. Sends go through a circuit breaker so a
// struggling SES endpoint fails the rest of a reminder batch fast.
func NewSESMailer(client SESClient, sender string) *SESMailer {
	settings := gobreaker.Settings{
		Name:        "SES",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip if failure rate is at least 50% after at least 10 requests
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
	}

	return &SESMailer{
		client: client,
		sender: sender,
		cb:     gobreaker.NewCircuitBreaker(settings),
	}
}

func (m *SESMailer) Send(ctx context.Context, to, subject, body string) (string, error) {
	tracer := otel.Tracer("ses-mailer")
	ctx, span := tracer.Start(ctx, "send_email", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("app.recipient", to))

	input := &ses.SendEmailInput{
		Source: aws.String(m.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body),
				},
			},
		},
	}

	out, err := m.cb.Execute(func() (interface{}, error) {
		return m.client.SendEmail(ctx, input)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			span.SetAttributes(attribute.Bool("app.circuitOpen", true))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	resp, _ := out.(*ses.SendEmailOutput)
	if resp == nil || resp.MessageId == nil {
		return "", nil
	}
	return *resp.MessageId, nil
}
