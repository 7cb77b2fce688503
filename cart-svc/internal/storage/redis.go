package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"swayum-canteen/cart-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

// Carts live for a week without activity. The key layout matches the
// clearer in order-svc, which deletes the cart after collection.
const cartTTL = 7 * 24 * time.Hour

func cartKey(ownerID string) string {
	return "cart:" + ownerID
}

type CartRepository struct {
	client *redis.Client
}

func NewCartRepository(client *redis.Client) *CartRepository {
	return &CartRepository{client: client}
}

func (r *CartRepository) LoadCart(ctx context.Context, ownerID string) ([]domain.CartLine, error) {
	raw, err := r.client.Get(ctx, cartKey(ownerID)).Result()
	if errors.Is(err, redis.Nil) {
		return []domain.CartLine{}, nil
	}
	if err != nil {
		return nil, err
	}

	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		// A corrupt blob resets the cart rather than blocking the user.
		log.Printf("[cart-svc] dropping corrupt cart for %s: %v", ownerID, err)
		return []domain.CartLine{}, nil
	}
	return lines, nil
}

func (r *CartRepository) SaveCart(ctx context.Context, ownerID string, lines []domain.CartLine) error {
	if len(lines) == 0 {
		return r.DeleteCart(ctx, ownerID)
	}

	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, cartKey(ownerID), raw, cartTTL).Err()
}

func (r *CartRepository) DeleteCart(ctx context.Context, ownerID string) error {
	return r.client.Del(ctx, cartKey(ownerID)).Err()
}
