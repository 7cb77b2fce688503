package tests

import (
	"context"
	"testing"

	"swayum-canteen/cart-svc/internal/domain"
	"swayum-canteen/cart-svc/internal/mocks"
	"swayum-canteen/cart-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func samosaLine(quantity int) domain.CartLine {
	return domain.CartLine{
		ItemID:      1,
		Name:        "Samosa",
		Price:       30,
		Quantity:    quantity,
		MaxQuantity: 4,
		PickupTime:  "12:30",
	}
}

func TestCartService_Add(t *testing.T) {
	tests := []struct {
		name         string
		existing     []domain.CartLine
		line         domain.CartLine
		wantErr      error
		wantLines    int
		wantQuantity int
	}{
		{
			name:         "first item",
			existing:     []domain.CartLine{},
			line:         samosaLine(2),
			wantLines:    1,
			wantQuantity: 2,
		},
		{
			name:         "same item and slot merges",
			existing:     []domain.CartLine{samosaLine(2)},
			line:         samosaLine(1),
			wantLines:    1,
			wantQuantity: 3,
		},
		{
			name:     "same item different slot stays separate",
			existing: []domain.CartLine{samosaLine(2)},
			line: domain.CartLine{
				ItemID: 1, Name: "Samosa", Price: 30, Quantity: 1, MaxQuantity: 4, PickupTime: "13:00",
			},
			wantLines:    2,
			wantQuantity: 2,
		},
		{
			name:     "merge over the limit is rejected whole",
			existing: []domain.CartLine{samosaLine(3)},
			line:     samosaLine(2),
			wantErr:  service.ErrQuantityExceedsLimit,
		},
		{
			name:     "zero quantity",
			existing: []domain.CartLine{},
			line:     samosaLine(0),
			wantErr:  service.ErrInvalidQuantity,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := new(mocks.CartRepository)
			if testCase.wantErr != service.ErrInvalidQuantity {
				repo.On("LoadCart", mock.Anything, "user-1").Return(testCase.existing, nil).Once()
			}
			if testCase.wantErr == nil {
				repo.On("SaveCart", mock.Anything, "user-1", mock.AnythingOfType("[]domain.CartLine")).Return(nil).Once()
			}

			svc := service.NewCartService(repo)
			cart, err := svc.Add(context.Background(), "user-1", testCase.line)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
			} else {
				require.NoError(t, err)
				assert.Len(t, cart.Lines, testCase.wantLines)
				assert.Equal(t, testCase.wantQuantity, cart.Lines[0].Quantity)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestCartService_Add_DefaultsMaxQuantity(t *testing.T) {
	repo := new(mocks.CartRepository)
	repo.On("LoadCart", mock.Anything, "user-1").Return([]domain.CartLine{}, nil).Once()
	repo.On("SaveCart", mock.Anything, "user-1", mock.Anything).Return(nil).Once()

	line := samosaLine(2)
	line.MaxQuantity = 0

	svc := service.NewCartService(repo)
	cart, err := svc.Add(context.Background(), "user-1", line)

	require.NoError(t, err)
	assert.Equal(t, 4, cart.Lines[0].MaxQuantity)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	t.Run("set new quantity", func(t *testing.T) {
		repo := new(mocks.CartRepository)
		repo.On("LoadCart", mock.Anything, "user-1").Return([]domain.CartLine{samosaLine(2)}, nil).Once()
		repo.On("SaveCart", mock.Anything, "user-1", mock.Anything).Return(nil).Once()

		svc := service.NewCartService(repo)
		cart, err := svc.UpdateQuantity(context.Background(), "user-1", 1, "12:30", 4)

		require.NoError(t, err)
		assert.Equal(t, 4, cart.Lines[0].Quantity)
		assert.Equal(t, 120, cart.Total)
	})

	t.Run("over the limit keeps the previous quantity", func(t *testing.T) {
		repo := new(mocks.CartRepository)
		repo.On("LoadCart", mock.Anything, "user-1").Return([]domain.CartLine{samosaLine(3)}, nil).Once()

		svc := service.NewCartService(repo)
		_, err := svc.UpdateQuantity(context.Background(), "user-1", 1, "12:30", 5)

		assert.ErrorIs(t, err, service.ErrQuantityExceedsLimit)
		repo.AssertNotCalled(t, "SaveCart", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("zero removes the line", func(t *testing.T) {
		repo := new(mocks.CartRepository)
		repo.On("LoadCart", mock.Anything, "user-1").Return([]domain.CartLine{samosaLine(2)}, nil).Once()
		repo.On("SaveCart", mock.Anything, "user-1", []domain.CartLine{}).Return(nil).Once()

		svc := service.NewCartService(repo)
		cart, err := svc.UpdateQuantity(context.Background(), "user-1", 1, "12:30", 0)

		require.NoError(t, err)
		assert.Empty(t, cart.Lines)
		assert.Zero(t, cart.Total)
	})

	t.Run("unknown line", func(t *testing.T) {
		repo := new(mocks.CartRepository)
		repo.On("LoadCart", mock.Anything, "user-1").Return([]domain.CartLine{}, nil).Once()

		svc := service.NewCartService(repo)
		_, err := svc.UpdateQuantity(context.Background(), "user-1", 9, "12:30", 1)

		assert.ErrorIs(t, err, service.ErrLineNotFound)
	})
}

func TestCartService_Totals(t *testing.T) {
	repo := new(mocks.CartRepository)
	repo.On("LoadCart", mock.Anything, "user-1").Return([]domain.CartLine{
		{ItemID: 1, Price: 30, Quantity: 2, MaxQuantity: 4, PickupTime: "12:30"},
		{ItemID: 2, Price: 50, Quantity: 1, MaxQuantity: 4, PickupTime: "12:30"},
	}, nil).Once()

	svc := service.NewCartService(repo)
	cart, err := svc.Get(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, 110, cart.Total)
	assert.Equal(t, 3, cart.Count)
}

func TestCartService_Clear(t *testing.T) {
	repo := new(mocks.CartRepository)
	repo.On("DeleteCart", mock.Anything, "user-1").Return(nil).Once()

	svc := service.NewCartService(repo)
	assert.NoError(t, svc.Clear(context.Background(), "user-1"))
	repo.AssertExpectations(t)
}
