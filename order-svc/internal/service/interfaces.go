package service

import (
	"context"

	"swayum-canteen/order-svc/internal/domain"
	"swayum-canteen/order-svc/internal/storage"
)

type MenuServiceInterface interface {
	ListItems(category string) ([]domain.MenuItem, error)
	GetItem(id int) (*domain.MenuItem, error)
}

type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, userID string, lines []domain.OrderLine, totalAmount int, pickupTime string) (*domain.Order, error)
	GetOrder(ctx context.Context, id int) (*domain.Order, error)
	GetOrderByRef(ctx context.Context, refID string) (*domain.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]domain.Order, error)
	AdvanceStatus(ctx context.Context, id int, rawStatus string) (*domain.Order, error)
	Collect(ctx context.Context, id int, code string) (*domain.Order, error)
	StageOf(ctx context.Context, id int) (domain.StatusStage, error)
}

type MenuRepository interface {
	ListItems(category string) ([]domain.MenuItem, error)
	GetItem(id int) (*domain.MenuItem, error)
}

type OrderRepository interface {
	InsertOrder(order *domain.Order) error
	GetOrderByID(id int) (*domain.Order, error)
	GetOrderByRefID(refID string) (*domain.Order, error)
	ListOrdersByUser(userID string) ([]domain.Order, error)
	UpdateStatus(id int, status string) (string, error)
	MarkCollected(id int) (bool, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, event domain.OrderEvent) error
}

type StatusCache interface {
	SetStage(ctx context.Context, orderID int, stage string) error
	GetStage(ctx context.Context, orderID int) (string, bool, error)
}

type CartClearer interface {
	ClearCart(ctx context.Context, userID string) error
}

var (
	_ MenuServiceInterface  = (*MenuService)(nil)
	_ OrderServiceInterface = (*OrderService)(nil)
	_ MenuRepository        = (*storage.MenuRepository)(nil)
	_ OrderRepository       = (*storage.OrderRepository)(nil)
	_ EventPublisher        = (*storage.EventPublisher)(nil)
	_ StatusCache           = (*storage.StatusCache)(nil)
	_ CartClearer           = (*storage.CartClearer)(nil)
)
