package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Producer struct {
	sender           MessageSender
	reminderQueueURL string
}

func NewProducer(sender MessageSender, reminderQueueURL string) *Producer {
	return &Producer{
		sender:           sender,
		reminderQueueURL: reminderQueueURL,
	}
}

func NewSQSProducer(client SQSClient, reminderQueueURL string) *Producer {
	return NewProducer(&SQSSender{client: client}, reminderQueueURL)
}

func (p *Producer) PublishReminderRun(ctx context.Context, event ReminderRunEvent) error {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("app.reminderRunId", event.RunID),
			attribute.Int("app.lookbackDays", event.LookbackDays),
		)
	}
	return p.publish(ctx, p.reminderQueueURL, event)
}

func (p *Producer) publish(ctx context.Context, destination string, body interface{}) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal body: %w", err)
	}

	if err := p.sender.SendMessage(ctx, destination, b); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
