// Package kafka publishes order lifecycle events to a Kafka topic. Publishing
// happens after the owning transaction has committed and is best-effort: a
// broker failure is logged and surfaced to the caller, but handlers do not
// roll back committed work because of it.
package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"quetzalship/internal/core/domain/model/order"
)

const (
	eventOrderCreated   = "created"
	eventOrderCancelled = "cancelled"
)

// orderEvent is the wire shape of an order lifecycle event.
type orderEvent struct {
	OrderID    string    `json:"orderId"`
	Event      string    `json:"event"`
	Status     string    `json:"status"`
	Total      float64   `json:"total"`
	OccurredAt time.Time `json:"occurredAt"`
}

// OrderEventPublisher writes order events to a single Kafka topic, keyed by
// order id so events for one order stay ordered within a partition.
type OrderEventPublisher struct {
	writer *kafka.Writer
	log    *slog.Logger
}

// NewOrderEventPublisher creates a publisher for the given brokers and topic.
func NewOrderEventPublisher(brokers []string, topic string, log *slog.Logger) *OrderEventPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &OrderEventPublisher{
		writer: writer,
		log:    log,
	}
}

// PublishOrderCreated emits a creation event for the order.
func (p *OrderEventPublisher) PublishOrderCreated(ctx context.Context, aggregate *order.Order) error {
	return p.publish(ctx, eventOrderCreated, aggregate)
}

// PublishOrderCancelled emits a cancellation event for the order.
func (p *OrderEventPublisher) PublishOrderCancelled(ctx context.Context, aggregate *order.Order) error {
	return p.publish(ctx, eventOrderCancelled, aggregate)
}

func (p *OrderEventPublisher) publish(ctx context.Context, event string, aggregate *order.Order) error {
	payload, err := json.Marshal(orderEvent{
		OrderID:    aggregate.ID().String(),
		Event:      event,
		Status:     aggregate.Status().String(),
		Total:      aggregate.Total(),
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(aggregate.ID().String()),
		Value: payload,
	})
	if err != nil {
		p.log.Error("failed to publish order event",
			"event", event,
			"orderId", aggregate.ID().String(),
			"error", err,
		)
		return err
	}

	p.log.Info("published order event",
		"event", event,
		"orderId", aggregate.ID().String(),
	)
	return nil
}

// Close flushes pending messages and releases the writer.
func (p *OrderEventPublisher) Close() error {
	return p.writer.Close()
}
