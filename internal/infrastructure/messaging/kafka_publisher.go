package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/credit-module/pkg/events"
	pkgkafka "github.com/bibbank/credit-module/pkg/kafka"
)

// MessageProducer is satisfied by *pkgkafka.Producer.
type MessageProducer interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// KafkaEventPublisher implements port.EventPublisher by writing outbox
// entries to a single Kafka topic, keyed by aggregate so that events of one
// loan stay ordered within a partition.
type KafkaEventPublisher struct {
	producer MessageProducer
	topic    string
	logger   *slog.Logger
}

func NewKafkaEventPublisher(producer MessageProducer, topic string, logger *slog.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, entries ...events.OutboxEntry) error {
	if len(entries) == 0 {
		return nil
	}

	messages := make([]pkgkafka.Message, 0, len(entries))
	for _, e := range entries {
		p.logger.DebugContext(ctx, "publishing domain event",
			"event_type", e.EventType,
			"aggregate_id", e.AggregateID,
			"topic", p.topic,
			"payload_size", len(e.Payload),
		)
		messages = append(messages, pkgkafka.Message{
			Key:   []byte(e.AggregateID),
			Value: e.Payload,
			Headers: map[string]string{
				"event_type":     e.EventType,
				"event_id":       e.ID,
				"aggregate_type": e.AggregateType,
			},
		})
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("publish %d events to topic %s: %w", len(messages), p.topic, err)
	}
	return nil
}
