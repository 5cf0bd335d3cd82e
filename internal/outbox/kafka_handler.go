package outbox

import (
	"context"
	"fmt"

	"github.com/ahsenkhancoding/backend/internal/models"
	"github.com/ahsenkhancoding/backend/pkg/kafka"
	"github.com/ahsenkhancoding/backend/pkg/logger"
)

// KafkaHandler publishes outbox messages to a Kafka topic
type KafkaHandler struct {
	producer *kafka.Producer
	topic    string
	logger   logger.Logger
}

// NewKafkaHandler creates a new KafkaHandler
func NewKafkaHandler(producer *kafka.Producer, topic string, logger logger.Logger) *KafkaHandler {
	return &KafkaHandler{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// HandleMessage publishes the message payload to Kafka. The aggregate ID is
// used as the partition key so all events for one order stay ordered.
func (h *KafkaHandler) HandleMessage(ctx context.Context, message *models.OutboxMessage) error {
	err := h.producer.SendMessage(ctx, h.topic, message.AggregateID, message.Payload)

	if err != nil {
		return fmt.Errorf("failed to publish message to Kafka: %w", err)
	}

	h.logger.Debug("Published outbox message",
		"topic", h.topic,
		"messageID", message.ID,
		"aggregateID", message.AggregateID,
		"eventType", message.EventType)

	return nil
}
