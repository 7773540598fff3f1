package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
)

type fakeSQS struct {
	mu         sync.Mutex
	batches    [][]types.Message
	deleted    []string
	visibility map[string]int32
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.mu.Lock()
	if len(f.batches) > 0 {
		batch := f.batches[0]
		f.batches = f.batches[1:]
		f.mu.Unlock()
		return &sqs.ReceiveMessageOutput{Messages: batch}, nil
	}
	f.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Millisecond):
		return &sqs.ReceiveMessageOutput{}, nil
	}
}

func (f *fakeSQS) DeleteMessage(_ context.Context, in *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, *in.ReceiptHandle)
	return &sqs.DeleteMessageOutput{}, nil
}

func (f *fakeSQS) ChangeMessageVisibility(_ context.Context, in *sqs.ChangeMessageVisibilityInput, _ ...func(*sqs.Options)) (*sqs.ChangeMessageVisibilityOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visibility[*in.ReceiptHandle] = in.VisibilityTimeout
	return &sqs.ChangeMessageVisibilityOutput{}, nil
}

type scriptedProcessor map[string]struct {
	retry bool
	delay int32
	err   error
}

func (p scriptedProcessor) Process(_ context.Context, msg types.Message) (bool, int32, error) {
	r := p[*msg.Body]
	return r.retry, r.delay, r.err
}

func msg(body string) types.Message {
	return types.Message{MessageId: aws.String(body), ReceiptHandle: aws.String(body), Body: aws.String(body)}
}

func TestWorkerDeletesOrRequeues(t *testing.T) {
	client := &fakeSQS{
		batches:    [][]types.Message{{msg("ok"), msg("transient"), msg("poison")}},
		visibility: make(map[string]int32),
	}
	proc := scriptedProcessor{
		"transient": {retry: true, delay: 40, err: errors.New("db down")},
		"poison":    {err: errors.New("bad payload")},
	}
	w := NewWorker(client, "queue-url", proc)
	w.WaitTimeSeconds = 0

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		client.mu.Lock()
		defer client.mu.Unlock()
		return len(client.deleted) == 2 && len(client.visibility) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}

	assert.ElementsMatch(t, []string{"ok", "poison"}, client.deleted)
	assert.Equal(t, int32(40), client.visibility["transient"])
}
