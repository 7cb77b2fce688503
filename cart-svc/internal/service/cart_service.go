package service

import (
	"context"
	"errors"
	"fmt"

	"swayum-canteen/cart-svc/internal/domain"
)

const defaultMaxQuantity = 4

var (
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrQuantityExceedsLimit = errors.New("quantity exceeds the per-order limit for this item")
	ErrLineNotFound         = errors.New("item is not in the cart")
)

type CartService struct {
	repository CartRepository
}

func NewCartService(repository CartRepository) *CartService {
	return &CartService{repository: repository}
}

func (s *CartService) Get(ctx context.Context, ownerID string) (domain.Cart, error) {
	lines, err := s.repository.LoadCart(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("load cart: %w", err)
	}
	return domain.BuildCart(lines), nil
}

// Add merges the line into the cart. Lines merge only when both the item
// and the pickup time match; the same dish for a different slot is a
// separate line. A merge that would cross the item's limit is rejected
// whole, leaving the existing quantity in place.
func (s *CartService) Add(ctx context.Context, ownerID string, line domain.CartLine) (domain.Cart, error) {
	if line.Quantity < 1 {
		return domain.Cart{}, ErrInvalidQuantity
	}
	if line.MaxQuantity < 1 {
		line.MaxQuantity = defaultMaxQuantity
	}

	lines, err := s.repository.LoadCart(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("load cart: %w", err)
	}

	merged := false
	for i := range lines {
		if lines[i].ItemID == line.ItemID && lines[i].PickupTime == line.PickupTime {
			if lines[i].Quantity+line.Quantity > lines[i].MaxQuantity {
				return domain.Cart{}, ErrQuantityExceedsLimit
			}
			lines[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		if line.Quantity > line.MaxQuantity {
			return domain.Cart{}, ErrQuantityExceedsLimit
		}
		lines = append(lines, line)
	}

	if err := s.repository.SaveCart(ctx, ownerID, lines); err != nil {
		return domain.Cart{}, fmt.Errorf("save cart: %w", err)
	}
	return domain.BuildCart(lines), nil
}

// UpdateQuantity sets a line's quantity outright. Zero or less removes the
// line; crossing the limit is rejected and the previous quantity stays.
func (s *CartService) UpdateQuantity(ctx context.Context, ownerID string, itemID int, pickupTime string, quantity int) (domain.Cart, error) {
	lines, err := s.repository.LoadCart(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("load cart: %w", err)
	}

	for i := range lines {
		if lines[i].ItemID != itemID || lines[i].PickupTime != pickupTime {
			continue
		}
		if quantity <= 0 {
			lines = append(lines[:i], lines[i+1:]...)
		} else if quantity > lines[i].MaxQuantity {
			return domain.Cart{}, ErrQuantityExceedsLimit
		} else {
			lines[i].Quantity = quantity
		}

		if err := s.repository.SaveCart(ctx, ownerID, lines); err != nil {
			return domain.Cart{}, fmt.Errorf("save cart: %w", err)
		}
		return domain.BuildCart(lines), nil
	}

	return domain.Cart{}, ErrLineNotFound
}

func (s *CartService) Remove(ctx context.Context, ownerID string, itemID int, pickupTime string) (domain.Cart, error) {
	return s.UpdateQuantity(ctx, ownerID, itemID, pickupTime, 0)
}

func (s *CartService) Clear(ctx context.Context, ownerID string) error {
	if err := s.repository.DeleteCart(ctx, ownerID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
