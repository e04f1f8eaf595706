package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	MetadataEventType  = "event_type"
	MetadataOccurredAt = "occurred_at"
)

// ChannelPublisher publishes events onto an in-process watermill bus.
type ChannelPublisher struct {
	publisher message.Publisher
}

func NewChannelPublisher(publisher message.Publisher) *ChannelPublisher {
	return &ChannelPublisher{publisher: publisher}
}

func (p *ChannelPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)
	msg.Metadata.Set(MetadataEventType, event.EventType())
	msg.Metadata.Set(MetadataOccurredAt, event.Timestamp().Format(time.RFC3339Nano))

	subject := Subject(event.EventType())
	if err := p.publisher.Publish(subject, msg); err != nil {
		return fmt.Errorf("failed to publish event to topic %s: %w", subject, err)
	}
	return nil
}

// Fanout publishes every event to all of its publishers and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
