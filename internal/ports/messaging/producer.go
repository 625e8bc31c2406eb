package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// EventProducer defines the output port for publishing domain events.
type EventProducer interface {
	PublishSyncRequest(ctx context.Context, event SyncRequestedEvent) error
	PublishSyncReport(ctx context.Context, event SyncCompletedEvent) error
}

// MessageSender defines the interface for sending raw messages to a messaging system.
type MessageSender interface {
	SendMessage(ctx context.Context, destination string, body []byte) error
}

// Producer publishes domain events to the sync and report queues.
type Producer struct {
	sender         MessageSender
	syncQueueURL   string
	reportQueueURL string
}

func NewProducer(sender MessageSender, syncQueueURL, reportQueueURL string) *Producer {
	return &Producer{
		sender:         sender,
		syncQueueURL:   syncQueueURL,
		reportQueueURL: reportQueueURL,
	}
}

// NewSQSProducer wires a Producer on top of the AWS SQS client.
func NewSQSProducer(client SQSClient, syncQueueURL, reportQueueURL string) *Producer {
	return NewProducer(&SQSSender{client: client}, syncQueueURL, reportQueueURL)
}

func (p *Producer) PublishSyncRequest(ctx context.Context, event SyncRequestedEvent) error {
	return p.publish(ctx, p.syncQueueURL, event.DeviceID, event)
}

func (p *Producer) PublishSyncReport(ctx context.Context, event SyncCompletedEvent) error {
	return p.publish(ctx, p.reportQueueURL, event.DeviceID, event)
}

func (p *Producer) publish(ctx context.Context, destination, deviceID string, body interface{}) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal body: %w", err)
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() && deviceID != "" {
		span.SetAttributes(attribute.String("app.deviceId", deviceID))
	}

	if err := p.sender.SendMessage(ctx, destination, b); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
