package storage

import (
	"context"
	"encoding/json"
	"strconv"

	"swayum-canteen/order-svc/internal/domain"

	"github.com/segmentio/kafka-go"
)

// EventPublisher pushes order change events onto the order-events topic.
// Messages are keyed by order id so consumers see one order's changes in
// order.
type EventPublisher struct {
	Writer *kafka.Writer
}

func NewEventPublisher(writer *kafka.Writer) *EventPublisher {
	return &EventPublisher{Writer: writer}
}

func (p *EventPublisher) PublishEvent(ctx context.Context, event domain.OrderEvent) error {
	payload, _ := json.Marshal(event)
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(event.OrderID)),
		Value: payload,
	})
}
