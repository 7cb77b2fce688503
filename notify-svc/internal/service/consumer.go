package service

import (
	"context"
	"encoding/json"
	"log"

	"swayum-canteen/notify-svc/internal/domain"

	"github.com/segmentio/kafka-go"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// Consumer turns status change events into user-facing notifications.
type Consumer struct {
	store NotificationStore
}

func NewConsumer(store NotificationStore) *Consumer {
	return &Consumer{store: store}
}

func (c *Consumer) Start(ctx context.Context, reader MessageReader) {
	log.Println("[notify-svc] consuming order events")
	for {
		message, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[notify-svc] read error: %v", err)
			continue
		}

		var event domain.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.Printf("[notify-svc] unmarshal error: %v", err)
			continue
		}

		if err := c.ProcessEvent(ctx, event); err != nil {
			log.Printf("[notify-svc] failed to process event for order %d: %v", event.OrderID, err)
		}
	}
}

// messageFor maps a status to the customer-facing text. Statuses without a
// message (for example the initial received) produce nothing.
func messageFor(status string) string {
	switch status {
	case "preparing", "preparation":
		return "Your order is being prepared"
	case "ready":
		return "Your order is ready for pickup"
	case "completed":
		return "Thank you for collecting your order"
	}
	return ""
}

// ProcessEvent appends one notification, honoring the user's preferences.
// Events without a user, non status events, and statuses with no message
// are skipped.
func (c *Consumer) ProcessEvent(ctx context.Context, event domain.OrderEvent) error {
	if event.Type != domain.EventStatusChanged || event.UserID == "" {
		return nil
	}

	message := messageFor(event.NewStatus)
	if message == "" {
		return nil
	}

	prefs, err := c.store.GetPreferences(ctx, event.UserID)
	if err != nil {
		return err
	}
	if !prefs.NotificationsEnabled {
		return nil
	}

	return c.store.AppendNotification(ctx, event.UserID, domain.Notification{
		OrderID:   event.OrderID,
		RefID:     event.RefID,
		Status:    event.NewStatus,
		Message:   message,
		Sound:     prefs.SoundEnabled,
		CreatedAt: event.Timestamp,
	})
}
