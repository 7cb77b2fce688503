package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatusCache mirrors the latest observed stage per order so the status
// endpoint and a restarted tracker pick up where the last view left off.
type StatusCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewStatusCache(client *redis.Client, ttl time.Duration) *StatusCache {
	return &StatusCache{Client: client, TTL: ttl}
}

func statusKey(orderID int) string {
	return "order:status:" + strconv.Itoa(orderID)
}

func (c *StatusCache) SetStage(ctx context.Context, orderID int, stage string) error {
	return c.Client.Set(ctx, statusKey(orderID), stage, c.TTL).Err()
}

func (c *StatusCache) GetStage(ctx context.Context, orderID int) (string, bool, error) {
	val, err := c.Client.Get(ctx, statusKey(orderID)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// CartClearer empties a user's cart after a successful collection. The key
// layout matches cart-svc's store; both services share the same redis.
type CartClearer struct {
	Client *redis.Client
}

func NewCartClearer(client *redis.Client) *CartClearer {
	return &CartClearer{Client: client}
}

func (c *CartClearer) ClearCart(ctx context.Context, userID string) error {
	return c.Client.Del(ctx, "cart:"+userID).Err()
}
