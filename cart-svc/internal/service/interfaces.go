package service

import (
	"context"

	"swayum-canteen/cart-svc/internal/domain"
	"swayum-canteen/cart-svc/internal/storage"
)

type CartServiceInterface interface {
	Get(ctx context.Context, ownerID string) (domain.Cart, error)
	Add(ctx context.Context, ownerID string, line domain.CartLine) (domain.Cart, error)
	UpdateQuantity(ctx context.Context, ownerID string, itemID int, pickupTime string, quantity int) (domain.Cart, error)
	Remove(ctx context.Context, ownerID string, itemID int, pickupTime string) (domain.Cart, error)
	Clear(ctx context.Context, ownerID string) error
}

type CartRepository interface {
	LoadCart(ctx context.Context, ownerID string) ([]domain.CartLine, error)
	SaveCart(ctx context.Context, ownerID string, lines []domain.CartLine) error
	DeleteCart(ctx context.Context, ownerID string) error
}

var (
	_ CartServiceInterface = (*CartService)(nil)
	_ CartRepository       = (*storage.CartRepository)(nil)
)
