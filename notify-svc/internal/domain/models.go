package domain

import "time"

// OrderEvent mirrors the payload order-svc publishes on the order-events
// topic. Only the fields this service reads are kept.
type OrderEvent struct {
	Type      string    `json:"type"`
	OrderID   int       `json:"order_id"`
	RefID     string    `json:"ref_id"`
	UserID    string    `json:"user_id"`
	NewStatus string    `json:"new_status"`
	Collected bool      `json:"collected"`
	Timestamp time.Time `json:"timestamp"`
}

const EventStatusChanged = "status_changed"

type Notification struct {
	OrderID   int       `json:"order_id"`
	RefID     string    `json:"ref_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Sound     bool      `json:"sound"`
	CreatedAt time.Time `json:"created_at"`
}

// Preferences default to notifications on, sound off.
type Preferences struct {
	NotificationsEnabled bool `json:"notifications_enabled"`
	SoundEnabled         bool `json:"sound_enabled"`
}

func DefaultPreferences() Preferences {
	return Preferences{NotificationsEnabled: true, SoundEnabled: false}
}
