package service

import (
	"context"
	"encoding/json"

	"github.com/cridiv/Aedar/internal/pkg/logger"
	"github.com/cridiv/Aedar/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

const consumerModule = "ActivityConsumer"

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService records every domain event published on the in-process
// bus in the activity log.
type consumerService struct {
	subscriber message.Subscriber
	topics     []string
	logger     logger.ILogger
}

func NewConsumerService(subscriber message.Subscriber, logger logger.ILogger) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topics: []string{
			events.Subject(events.TypeRoadmapGenerated),
			events.Subject(events.TypeCalendarSynced),
		},
		logger: logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	for _, topic := range cs.topics {
		messages, err := cs.subscriber.Subscribe(ctx, topic)
		if err != nil {
			return err
		}

		go func() {
			for msg := range messages {
				cs.processMessage(msg)
			}
		}()
	}
	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	// Malformed messages are acked so they are not redelivered forever.
	defer msg.Ack()

	var payload map[string]interface{}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error(consumerModule, "Failed to unmarshal event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	if payload == nil {
		payload = map[string]interface{}{}
	}
	payload["message_id"] = msg.UUID
	cs.logger.Info(consumerModule, msg.Metadata.Get(events.MetadataEventType), payload)
}
