package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/bankcore/cards-api/internal/api/metrics"
	"github.com/bankcore/cards-api/internal/core/domain"
)

// Config holds the producer connection parameters.
type Config struct {
	Brokers []string
	Topic   string
}

// Producer publishes card events to a single Kafka topic, keyed by card id so
// that events for the same card land on the same partition in order.
type Producer struct {
	writer *kafkago.Writer
}

// NewProducer creates a Producer with the given configuration.
func NewProducer(cfg Config) *Producer {
	return &Producer{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafkago.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: kafkago.RequireAll,
		},
	}
}

// Publish serialises the event as JSON and writes it to the topic.
func (p *Producer) Publish(ctx context.Context, event domain.CardEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(event.CardID),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		metrics.EventsPublishErrorsTotal.Inc()
		return fmt.Errorf("kafka publish: %w", err)
	}

	metrics.EventsPublishedTotal.WithLabelValues(string(event.Type)).Inc()
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
