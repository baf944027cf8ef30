package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartcraft/storefront/internal/models"
	"github.com/segmentio/kafka-go"
)

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event models.OrderEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	// single-message writes on the request path: flush immediately and give
	// up quickly when the brokers are down
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		BatchSize:              1,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           2 * time.Second,
		MaxAttempts:            2,
		RequiredAcks:           kafka.RequireOne,
	}

	return &KafkaPublisher{writer: w}
}

// NewKafkaPublisherWithWriter is used by tests to capture written messages.
func NewKafkaPublisherWithWriter(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// PublishOrderPlaced writes the event keyed by order id so every event of an
// order lands on the same partition.
func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, event models.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID.String()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish order event %s: %w", event.OrderID, err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderPlaced(ctx context.Context, event models.OrderEvent) error {
	slog.Debug("Order event dropped, no brokers configured", slog.String("orderId", event.OrderID.String()))
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
