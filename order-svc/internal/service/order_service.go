package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"strconv"
	"time"

	"swayum-canteen/order-svc/internal/domain"
)

var (
	ErrEmptyOrder           = errors.New("order has no items")
	ErrMissingPickupTime    = errors.New("pickup time is required")
	ErrItemUnavailable      = errors.New("menu item is not available")
	ErrQuantityExceedsLimit = errors.New("quantity exceeds the per-order limit for this item")
	ErrTotalMismatch        = errors.New("total amount does not match order items")
	ErrOrderNotFound        = errors.New("order not found")
	ErrIncorrectCode        = errors.New("incorrect collection code")
	ErrUnknownStatus        = errors.New("unknown order status")
	ErrStatusRegression     = errors.New("order status cannot move backwards")
)

type OrderService struct {
	repository OrderRepository
	menu       MenuRepository
	publisher  EventPublisher
	cache      StatusCache
	carts      CartClearer
}

func NewOrderService(repository OrderRepository, menu MenuRepository, publisher EventPublisher, cache StatusCache, carts CartClearer) *OrderService {
	return &OrderService{
		repository: repository,
		menu:       menu,
		publisher:  publisher,
		cache:      cache,
		carts:      carts,
	}
}

// newRefID builds the human-facing order reference, e.g. SW-250830-4821.
func newRefID(now time.Time) string {
	return fmt.Sprintf("SW-%s-%04d", now.Format("060102"), rand.IntN(10000))
}

// newCollectionCode draws a 4-digit pickup code.
func newCollectionCode() string {
	return strconv.Itoa(1000 + rand.IntN(9000))
}

func (s *OrderService) CreateOrder(ctx context.Context, userID string, lines []domain.OrderLine, totalAmount int, pickupTime string) (*domain.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	if pickupTime == "" {
		return nil, ErrMissingPickupTime
	}

	// Freeze name and price from the live catalog; the stored copy stays
	// valid even if the menu changes later.
	frozen := make([]domain.OrderLine, 0, len(lines))
	computedTotal := 0
	for _, line := range lines {
		item, err := s.menu.GetItem(line.ItemID)
		if err != nil {
			return nil, fmt.Errorf("look up menu item %d: %w", line.ItemID, err)
		}
		if !item.Available {
			return nil, ErrItemUnavailable
		}
		if line.Quantity < 1 || line.Quantity > item.MaxQuantity {
			return nil, ErrQuantityExceedsLimit
		}
		frozen = append(frozen, domain.OrderLine{
			ItemID:   item.ID,
			ItemName: item.Name,
			Price:    item.Price,
			Quantity: line.Quantity,
		})
		computedTotal += item.Price * line.Quantity
	}
	if computedTotal != totalAmount {
		return nil, ErrTotalMismatch
	}

	order := &domain.Order{
		RefID:       newRefID(time.Now()),
		UserID:      userID,
		TotalAmount: computedTotal,
		Status:      domain.StageReceived,
		PickupTime:  pickupTime,
		OrderCode:   newCollectionCode(),
		Items:       frozen,
	}

	if err := s.repository.InsertOrder(order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	_ = s.cache.SetStage(ctx, order.ID, order.Status.String())
	_ = s.publisher.PublishEvent(ctx, domain.OrderEvent{
		Type:      domain.EventOrderCreated,
		OrderID:   order.ID,
		RefID:     order.RefID,
		UserID:    order.UserID,
		NewStatus: order.Status.String(),
		Timestamp: time.Now(),
	})

	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	order, err := s.repository.GetOrderByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) GetOrderByRef(ctx context.Context, refID string) (*domain.Order, error) {
	order, err := s.repository.GetOrderByRefID(refID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repository.ListOrdersByUser(userID)
}

// AdvanceStatus is the back-office write path. Transitions are forward
// only; the published event carries the old and new raw status.
func (s *OrderService) AdvanceStatus(ctx context.Context, id int, rawStatus string) (*domain.Order, error) {
	stage, ok := domain.ParseStage(rawStatus)
	if !ok {
		return nil, ErrUnknownStatus
	}

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if stage < order.Status {
		return nil, ErrStatusRegression
	}

	oldStatus, err := s.repository.UpdateStatus(id, stage.String())
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	order.Status = stage
	_ = s.cache.SetStage(ctx, id, stage.String())
	_ = s.publisher.PublishEvent(ctx, domain.OrderEvent{
		Type:      domain.EventStatusChanged,
		OrderID:   order.ID,
		RefID:     order.RefID,
		UserID:    order.UserID,
		OldStatus: oldStatus,
		NewStatus: stage.String(),
		Collected: order.Collected,
		Timestamp: time.Now(),
	})

	return order, nil
}

// Collect verifies the submitted pickup code. A correct code completes the
// order and clears the user's cart; repeating it against an already
// collected order is a no-op success.
func (s *OrderService) Collect(ctx context.Context, id int, code string) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if code != order.OrderCode {
		return nil, ErrIncorrectCode
	}
	if order.Collected {
		return order, nil
	}

	first, err := s.repository.MarkCollected(id)
	if err != nil {
		return nil, fmt.Errorf("mark order collected: %w", err)
	}

	oldStatus := order.Status.String()
	order.Status = domain.StageCompleted
	order.Collected = true

	if !first {
		// Lost the race with another collection attempt; side effects
		// already fired there.
		return order, nil
	}

	_ = s.cache.SetStage(ctx, id, order.Status.String())
	_ = s.publisher.PublishEvent(ctx, domain.OrderEvent{
		Type:      domain.EventStatusChanged,
		OrderID:   order.ID,
		RefID:     order.RefID,
		UserID:    order.UserID,
		OldStatus: oldStatus,
		NewStatus: order.Status.String(),
		Collected: true,
		Timestamp: time.Now(),
	})

	if order.UserID != "" {
		if err := s.carts.ClearCart(ctx, order.UserID); err != nil {
			log.Printf("[order-svc] failed to clear cart for user %s: %v", order.UserID, err)
		}
	}

	return order, nil
}

// StageOf reports the last observed stage, preferring the cache mirror
// over a database read.
func (s *OrderService) StageOf(ctx context.Context, id int) (domain.StatusStage, error) {
	if raw, ok, err := s.cache.GetStage(ctx, id); err == nil && ok {
		if stage, valid := domain.ParseStage(raw); valid {
			return stage, nil
		}
	}

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return domain.StageReceived, err
	}
	return order.Status, nil
}
