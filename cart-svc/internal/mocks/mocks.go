package mocks

import (
	"context"

	"swayum-canteen/cart-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type CartRepository struct {
	mock.Mock
}

func (m *CartRepository) LoadCart(ctx context.Context, ownerID string) ([]domain.CartLine, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CartLine), args.Error(1)
}

func (m *CartRepository) SaveCart(ctx context.Context, ownerID string, lines []domain.CartLine) error {
	return m.Called(ctx, ownerID, lines).Error(0)
}

func (m *CartRepository) DeleteCart(ctx context.Context, ownerID string) error {
	return m.Called(ctx, ownerID).Error(0)
}

type CartService struct {
	mock.Mock
}

func (m *CartService) Get(ctx context.Context, ownerID string) (domain.Cart, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(domain.Cart), args.Error(1)
}

func (m *CartService) Add(ctx context.Context, ownerID string, line domain.CartLine) (domain.Cart, error) {
	args := m.Called(ctx, ownerID, line)
	return args.Get(0).(domain.Cart), args.Error(1)
}

func (m *CartService) UpdateQuantity(ctx context.Context, ownerID string, itemID int, pickupTime string, quantity int) (domain.Cart, error) {
	args := m.Called(ctx, ownerID, itemID, pickupTime, quantity)
	return args.Get(0).(domain.Cart), args.Error(1)
}

func (m *CartService) Remove(ctx context.Context, ownerID string, itemID int, pickupTime string) (domain.Cart, error) {
	args := m.Called(ctx, ownerID, itemID, pickupTime)
	return args.Get(0).(domain.Cart), args.Error(1)
}

func (m *CartService) Clear(ctx context.Context, ownerID string) error {
	return m.Called(ctx, ownerID).Error(0)
}
