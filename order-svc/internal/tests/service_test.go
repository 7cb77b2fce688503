package tests

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"swayum-canteen/order-svc/internal/domain"
	"swayum-canteen/order-svc/internal/mocks"
	"swayum-canteen/order-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newOrderService(repo *mocks.OrderRepository, menu *mocks.MenuRepository, publisher *mocks.EventPublisher, cache *mocks.StatusCache, carts *mocks.CartClearer) *service.OrderService {
	return service.NewOrderService(repo, menu, publisher, cache, carts)
}

func samosa() *domain.MenuItem {
	return &domain.MenuItem{
		ID:          1,
		Name:        "Samosa",
		Price:       30,
		Available:   true,
		MaxQuantity: 4,
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	tests := []struct {
		name         string
		lines        []domain.OrderLine
		totalAmount  int
		pickupTime   string
		prepareMocks func(menu *mocks.MenuRepository, repo *mocks.OrderRepository)
		wantErr      error
	}{
		{
			name:        "valid order",
			lines:       []domain.OrderLine{{ItemID: 1, Quantity: 2}},
			totalAmount: 60,
			pickupTime:  "12:30",
			prepareMocks: func(menu *mocks.MenuRepository, repo *mocks.OrderRepository) {
				menu.On("GetItem", 1).Return(samosa(), nil).Once()
				repo.On("InsertOrder", mock.AnythingOfType("*domain.Order")).Run(func(args mock.Arguments) {
					args.Get(0).(*domain.Order).ID = 42
				}).Return(nil).Once()
			},
		},
		{
			name:         "no items",
			lines:        nil,
			totalAmount:  0,
			pickupTime:   "12:30",
			prepareMocks: func(menu *mocks.MenuRepository, repo *mocks.OrderRepository) {},
			wantErr:      service.ErrEmptyOrder,
		},
		{
			name:         "missing pickup time",
			lines:        []domain.OrderLine{{ItemID: 1, Quantity: 1}},
			totalAmount:  30,
			pickupTime:   "",
			prepareMocks: func(menu *mocks.MenuRepository, repo *mocks.OrderRepository) {},
			wantErr:      service.ErrMissingPickupTime,
		},
		{
			name:        "item unavailable",
			lines:       []domain.OrderLine{{ItemID: 1, Quantity: 1}},
			totalAmount: 30,
			pickupTime:  "12:30",
			prepareMocks: func(menu *mocks.MenuRepository, repo *mocks.OrderRepository) {
				item := samosa()
				item.Available = false
				menu.On("GetItem", 1).Return(item, nil).Once()
			},
			wantErr: service.ErrItemUnavailable,
		},
		{
			name:        "quantity over per-item limit",
			lines:       []domain.OrderLine{{ItemID: 1, Quantity: 5}},
			totalAmount: 150,
			pickupTime:  "12:30",
			prepareMocks: func(menu *mocks.MenuRepository, repo *mocks.OrderRepository) {
				menu.On("GetItem", 1).Return(samosa(), nil).Once()
			},
			wantErr: service.ErrQuantityExceedsLimit,
		},
		{
			name:        "client total disagrees with catalog",
			lines:       []domain.OrderLine{{ItemID: 1, Quantity: 2}},
			totalAmount: 55,
			pickupTime:  "12:30",
			prepareMocks: func(menu *mocks.MenuRepository, repo *mocks.OrderRepository) {
				menu.On("GetItem", 1).Return(samosa(), nil).Once()
			},
			wantErr: service.ErrTotalMismatch,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			menu := new(mocks.MenuRepository)
			repo := new(mocks.OrderRepository)
			publisher := new(mocks.EventPublisher)
			cache := new(mocks.StatusCache)
			carts := new(mocks.CartClearer)
			testCase.prepareMocks(menu, repo)

			if testCase.wantErr == nil {
				cache.On("SetStage", mock.Anything, 42, "received").Return(nil).Once()
				publisher.On("PublishEvent", mock.Anything, mock.AnythingOfType("domain.OrderEvent")).Return(nil).Once()
			}

			svc := newOrderService(repo, menu, publisher, cache, carts)
			order, err := svc.CreateOrder(context.Background(), "user-1", testCase.lines, testCase.totalAmount, testCase.pickupTime)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				assert.Nil(t, order)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, domain.StageReceived, order.Status)
				assert.Equal(t, 60, order.TotalAmount)
				assert.Regexp(t, regexp.MustCompile(`^SW-\d{6}-\d{4}$`), order.RefID)
				assert.Regexp(t, regexp.MustCompile(`^\d{4}$`), order.OrderCode)
				assert.Equal(t, "Samosa", order.Items[0].ItemName)
				assert.Equal(t, 30, order.Items[0].Price)
			}
			menu.AssertExpectations(t)
			repo.AssertExpectations(t)
		})
	}
}

func TestOrderService_GetOrder_NotFound(t *testing.T) {
	repo := new(mocks.OrderRepository)
	repo.On("GetOrderByID", 99).Return(nil, sql.ErrNoRows).Once()

	svc := newOrderService(repo, new(mocks.MenuRepository), new(mocks.EventPublisher), new(mocks.StatusCache), new(mocks.CartClearer))

	order, err := svc.GetOrder(context.Background(), 99)
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
	assert.Nil(t, order)
	repo.AssertExpectations(t)
}

func TestOrderService_AdvanceStatus(t *testing.T) {
	tests := []struct {
		name         string
		rawStatus    string
		current      domain.StatusStage
		prepareMocks func(repo *mocks.OrderRepository, cache *mocks.StatusCache, publisher *mocks.EventPublisher)
		wantErr      error
		wantStage    domain.StatusStage
	}{
		{
			name:      "forward transition",
			rawStatus: "preparing",
			current:   domain.StageReceived,
			prepareMocks: func(repo *mocks.OrderRepository, cache *mocks.StatusCache, publisher *mocks.EventPublisher) {
				repo.On("UpdateStatus", 7, "preparing").Return("received", nil).Once()
				cache.On("SetStage", mock.Anything, 7, "preparing").Return(nil).Once()
				publisher.On("PublishEvent", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool {
					return e.Type == domain.EventStatusChanged && e.OldStatus == "received" && e.NewStatus == "preparing"
				})).Return(nil).Once()
			},
			wantStage: domain.StagePreparing,
		},
		{
			name:      "legacy preparation alias",
			rawStatus: "preparation",
			current:   domain.StageReceived,
			prepareMocks: func(repo *mocks.OrderRepository, cache *mocks.StatusCache, publisher *mocks.EventPublisher) {
				repo.On("UpdateStatus", 7, "preparing").Return("received", nil).Once()
				cache.On("SetStage", mock.Anything, 7, "preparing").Return(nil).Once()
				publisher.On("PublishEvent", mock.Anything, mock.AnythingOfType("domain.OrderEvent")).Return(nil).Once()
			},
			wantStage: domain.StagePreparing,
		},
		{
			name:         "unknown status",
			rawStatus:    "cancelled",
			current:      domain.StageReceived,
			prepareMocks: func(repo *mocks.OrderRepository, cache *mocks.StatusCache, publisher *mocks.EventPublisher) {},
			wantErr:      service.ErrUnknownStatus,
		},
		{
			name:         "backwards transition rejected",
			rawStatus:    "received",
			current:      domain.StageReady,
			prepareMocks: func(repo *mocks.OrderRepository, cache *mocks.StatusCache, publisher *mocks.EventPublisher) {},
			wantErr:      service.ErrStatusRegression,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := new(mocks.OrderRepository)
			cache := new(mocks.StatusCache)
			publisher := new(mocks.EventPublisher)

			if testCase.wantErr != service.ErrUnknownStatus {
				repo.On("GetOrderByID", 7).Return(&domain.Order{ID: 7, RefID: "SW-250830-1234", Status: testCase.current}, nil).Once()
			}
			testCase.prepareMocks(repo, cache, publisher)

			svc := newOrderService(repo, new(mocks.MenuRepository), publisher, cache, new(mocks.CartClearer))
			order, err := svc.AdvanceStatus(context.Background(), 7, testCase.rawStatus)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, testCase.wantStage, order.Status)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestOrderService_Collect(t *testing.T) {
	placed := func() *domain.Order {
		return &domain.Order{
			ID:        7,
			RefID:     "SW-250830-1234",
			UserID:    "user-1",
			Status:    domain.StageReady,
			OrderCode: "4821",
		}
	}

	t.Run("correct code completes the order", func(t *testing.T) {
		repo := new(mocks.OrderRepository)
		cache := new(mocks.StatusCache)
		publisher := new(mocks.EventPublisher)
		carts := new(mocks.CartClearer)

		repo.On("GetOrderByID", 7).Return(placed(), nil).Once()
		repo.On("MarkCollected", 7).Return(true, nil).Once()
		cache.On("SetStage", mock.Anything, 7, "completed").Return(nil).Once()
		publisher.On("PublishEvent", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool {
			return e.NewStatus == "completed" && e.Collected
		})).Return(nil).Once()
		carts.On("ClearCart", mock.Anything, "user-1").Return(nil).Once()

		svc := newOrderService(repo, new(mocks.MenuRepository), publisher, cache, carts)
		order, err := svc.Collect(context.Background(), 7, "4821")

		assert.NoError(t, err)
		assert.True(t, order.Collected)
		assert.Equal(t, domain.StageCompleted, order.Status)
		repo.AssertExpectations(t)
		carts.AssertExpectations(t)
	})

	t.Run("wrong code", func(t *testing.T) {
		repo := new(mocks.OrderRepository)
		repo.On("GetOrderByID", 7).Return(placed(), nil).Once()

		svc := newOrderService(repo, new(mocks.MenuRepository), new(mocks.EventPublisher), new(mocks.StatusCache), new(mocks.CartClearer))
		order, err := svc.Collect(context.Background(), 7, "0000")

		assert.ErrorIs(t, err, service.ErrIncorrectCode)
		assert.Nil(t, order)
	})

	t.Run("already collected is a no-op success", func(t *testing.T) {
		repo := new(mocks.OrderRepository)
		collected := placed()
		collected.Collected = true
		collected.Status = domain.StageCompleted
		repo.On("GetOrderByID", 7).Return(collected, nil).Once()

		svc := newOrderService(repo, new(mocks.MenuRepository), new(mocks.EventPublisher), new(mocks.StatusCache), new(mocks.CartClearer))
		order, err := svc.Collect(context.Background(), 7, "4821")

		assert.NoError(t, err)
		assert.True(t, order.Collected)
		repo.AssertExpectations(t)
	})

	t.Run("lost race publishes nothing", func(t *testing.T) {
		repo := new(mocks.OrderRepository)
		repo.On("GetOrderByID", 7).Return(placed(), nil).Once()
		repo.On("MarkCollected", 7).Return(false, nil).Once()

		svc := newOrderService(repo, new(mocks.MenuRepository), new(mocks.EventPublisher), new(mocks.StatusCache), new(mocks.CartClearer))
		order, err := svc.Collect(context.Background(), 7, "4821")

		assert.NoError(t, err)
		assert.True(t, order.Collected)
		repo.AssertExpectations(t)
	})
}

func TestOrderService_StageOf(t *testing.T) {
	t.Run("cache hit", func(t *testing.T) {
		cache := new(mocks.StatusCache)
		cache.On("GetStage", mock.Anything, 7).Return("ready", true, nil).Once()

		svc := newOrderService(new(mocks.OrderRepository), new(mocks.MenuRepository), new(mocks.EventPublisher), cache, new(mocks.CartClearer))
		stage, err := svc.StageOf(context.Background(), 7)

		assert.NoError(t, err)
		assert.Equal(t, domain.StageReady, stage)
		cache.AssertExpectations(t)
	})

	t.Run("cache miss falls back to database", func(t *testing.T) {
		cache := new(mocks.StatusCache)
		cache.On("GetStage", mock.Anything, 7).Return("", false, nil).Once()
		repo := new(mocks.OrderRepository)
		repo.On("GetOrderByID", 7).Return(&domain.Order{ID: 7, Status: domain.StagePreparing}, nil).Once()

		svc := newOrderService(repo, new(mocks.MenuRepository), new(mocks.EventPublisher), cache, new(mocks.CartClearer))
		stage, err := svc.StageOf(context.Background(), 7)

		assert.NoError(t, err)
		assert.Equal(t, domain.StagePreparing, stage)
	})
}
