package mocks

import (
	"context"

	"swayum-canteen/order-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MenuRepository struct {
	mock.Mock
}

func (m *MenuRepository) ListItems(category string) ([]domain.MenuItem, error) {
	args := m.Called(category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MenuItem), args.Error(1)
}

func (m *MenuRepository) GetItem(id int) (*domain.MenuItem, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MenuItem), args.Error(1)
}

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) InsertOrder(order *domain.Order) error {
	return m.Called(order).Error(0)
}

func (m *OrderRepository) GetOrderByID(id int) (*domain.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *OrderRepository) GetOrderByRefID(refID string) (*domain.Order, error) {
	args := m.Called(refID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *OrderRepository) ListOrdersByUser(userID string) ([]domain.Order, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *OrderRepository) UpdateStatus(id int, status string) (string, error) {
	args := m.Called(id, status)
	return args.String(0), args.Error(1)
}

func (m *OrderRepository) MarkCollected(id int) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) PublishEvent(ctx context.Context, event domain.OrderEvent) error {
	return m.Called(ctx, event).Error(0)
}

type StatusCache struct {
	mock.Mock
}

func (m *StatusCache) SetStage(ctx context.Context, orderID int, stage string) error {
	return m.Called(ctx, orderID, stage).Error(0)
}

func (m *StatusCache) GetStage(ctx context.Context, orderID int) (string, bool, error) {
	args := m.Called(ctx, orderID)
	return args.String(0), args.Bool(1), args.Error(2)
}

type CartClearer struct {
	mock.Mock
}

func (m *CartClearer) ClearCart(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type MenuService struct {
	mock.Mock
}

func (m *MenuService) ListItems(category string) ([]domain.MenuItem, error) {
	args := m.Called(category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MenuItem), args.Error(1)
}

func (m *MenuService) GetItem(id int) (*domain.MenuItem, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MenuItem), args.Error(1)
}

type OrderService struct {
	mock.Mock
}

func (m *OrderService) CreateOrder(ctx context.Context, userID string, lines []domain.OrderLine, totalAmount int, pickupTime string) (*domain.Order, error) {
	args := m.Called(ctx, userID, lines, totalAmount, pickupTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *OrderService) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *OrderService) GetOrderByRef(ctx context.Context, refID string) (*domain.Order, error) {
	args := m.Called(ctx, refID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *OrderService) ListUserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *OrderService) AdvanceStatus(ctx context.Context, id int, rawStatus string) (*domain.Order, error) {
	args := m.Called(ctx, id, rawStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *OrderService) Collect(ctx context.Context, id int, code string) (*domain.Order, error) {
	args := m.Called(ctx, id, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *OrderService) StageOf(ctx context.Context, id int) (domain.StatusStage, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.StatusStage), args.Error(1)
}

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) InsertUser(user *domain.User, passwordHash string) error {
	return m.Called(user, passwordHash).Error(0)
}

func (m *UserRepository) GetUserByEmail(email string) (*domain.User, string, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

func (m *UserRepository) GetUserByID(id string) (*domain.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type AuthService struct {
	mock.Mock
}

func (m *AuthService) SignUp(email, password, name, customerType string) (*domain.User, string, error) {
	args := m.Called(email, password, name, customerType)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

func (m *AuthService) SignIn(email, password string) (*domain.User, string, error) {
	args := m.Called(email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

func (m *AuthService) Verify(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func (m *AuthService) GetUser(id string) (*domain.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
