package domain

import "time"

type MenuItem struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        int       `json:"price"`
	ImageURL     string    `json:"image_url"`
	Category     string    `json:"category"`
	IsVegetarian bool      `json:"is_vegetarian"`
	Available    bool      `json:"available"`
	MaxQuantity  int       `json:"max_quantity"`
	CreatedAt    time.Time `json:"created_at"`
}

// OrderLine is a frozen copy of a menu item at checkout time. Catalog
// edits after the order is placed do not touch it.
type OrderLine struct {
	ItemID   int    `json:"item_id"`
	ItemName string `json:"item_name"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
}

type Order struct {
	ID          int         `json:"id"`
	RefID       string      `json:"ref_id"`
	UserID      string      `json:"user_id,omitempty"`
	TotalAmount int         `json:"total_amount"`
	Status      StatusStage `json:"status"`
	PickupTime  string      `json:"pickup_time"`
	OrderCode   string      `json:"order_code,omitempty"`
	Collected   bool        `json:"collected"`
	CreatedAt   time.Time   `json:"created_at"`
	Items       []OrderLine `json:"items"`
}

type TimeSlot struct {
	ID        string `json:"id"`
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	CustomerType string    `json:"customer_type"`
	CreatedAt    time.Time `json:"created_at"`
}

type OrderEvent struct {
	Type      string    `json:"type"`
	OrderID   int       `json:"order_id"`
	RefID     string    `json:"ref_id"`
	UserID    string    `json:"user_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Collected bool      `json:"collected"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	EventOrderCreated  = "order_created"
	EventStatusChanged = "status_changed"
)
