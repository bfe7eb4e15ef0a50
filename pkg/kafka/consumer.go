package kafka

import (
	"context"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"
)

// Handler processes a consumed Kafka message.
type Handler func(ctx context.Context, msg Message) error

// Consumer reads one topic as part of a consumer group.
type Consumer struct {
	reader  *kafkago.Reader
	handler Handler
	logger  *slog.Logger
}

// NewConsumer creates a new Consumer for the given topic with the provided handler.
func NewConsumer(cfg Config, topic string, handler Handler, logger *slog.Logger) (*Consumer, error) {
	readerCfg := kafkago.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       topic,
		GroupID:     cfg.ConsumerGroup,
		MinBytes:    1,
		MaxBytes:    10 * 1024 * 1024, // 10 MB
		StartOffset: kafkago.FirstOffset,
	}

	mechanism, err := cfg.saslMechanism()
	if err != nil {
		return nil, err
	}
	if cfg.TLS || mechanism != nil {
		readerCfg.Dialer = &kafkago.Dialer{
			TLS:           cfg.tlsConfig(),
			SASLMechanism: mechanism,
		}
	}

	return &Consumer{
		reader:  kafkago.NewReader(readerCfg),
		handler: handler,
		logger:  logger,
	}, nil
}

// Start reads messages until ctx is done. A message is committed only after
// the handler accepts it; rejected messages are logged and left uncommitted.
func (c *Consumer) Start(ctx context.Context) error {
	cfg := c.reader.Config()
	c.logger.Info("consumer starting", "topic", cfg.Topic, "group", cfg.GroupID)

	for {
		m, err := c.reader.FetchMessage(ctx)
		switch {
		case ctx.Err() != nil:
			c.logger.Info("consumer stopped", "topic", cfg.Topic)
			return nil
		case err != nil:
			return fmt.Errorf("fetch message: %w", err)
		}

		if err := c.handler(ctx, fromKafka(m)); err != nil {
			c.logger.Error("handler rejected message", append(position(m), "error", err)...)
			continue
		}
		if err := c.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			c.logger.Error("commit failed", append(position(m), "error", err)...)
		}
	}
}

func fromKafka(m kafkago.Message) Message {
	headers := make(map[string]string, len(m.Headers))
	for _, h := range m.Headers {
		headers[h.Key] = string(h.Value)
	}
	return Message{Key: m.Key, Value: m.Value, Headers: headers}
}

func position(m kafkago.Message) []any {
	return []any{"topic", m.Topic, "partition", m.Partition, "offset", m.Offset}
}

func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("close kafka reader: %w", err)
	}
	return nil
}
