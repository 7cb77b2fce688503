package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"swayum-canteen/notify-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	feedLength = 50
	feedTTL    = 7 * 24 * time.Hour
)

func prefsKey(userID string) string {
	return "notify:prefs:" + userID
}

func feedKey(userID string) string {
	return "notify:feed:" + userID
}

type NotificationStore struct {
	client *redis.Client
}

func NewNotificationStore(client *redis.Client) *NotificationStore {
	return &NotificationStore{client: client}
}

// GetPreferences falls back to the defaults for unknown users and for
// blobs that no longer parse.
func (s *NotificationStore) GetPreferences(ctx context.Context, userID string) (domain.Preferences, error) {
	raw, err := s.client.Get(ctx, prefsKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.DefaultPreferences(), nil
	}
	if err != nil {
		return domain.Preferences{}, err
	}

	var prefs domain.Preferences
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		log.Printf("[notify-svc] dropping corrupt preferences for %s: %v", userID, err)
		return domain.DefaultPreferences(), nil
	}
	return prefs, nil
}

func (s *NotificationStore) SetPreferences(ctx context.Context, userID string, prefs domain.Preferences) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, prefsKey(userID), raw, 0).Err()
}

// AppendNotification pushes onto the user's feed, newest first, capped at
// feedLength entries.
func (s *NotificationStore) AppendNotification(ctx context.Context, userID string, notification domain.Notification) error {
	raw, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	key := feedKey(userID)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, raw)
	pipe.LTrim(ctx, key, 0, feedLength-1)
	pipe.Expire(ctx, key, feedTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *NotificationStore) ListNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > feedLength {
		limit = feedLength
	}

	raws, err := s.client.LRange(ctx, feedKey(userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	notifications := []domain.Notification{}
	for _, raw := range raws {
		var notification domain.Notification
		if err := json.Unmarshal([]byte(raw), &notification); err != nil {
			continue
		}
		notifications = append(notifications, notification)
	}
	return notifications, nil
}
