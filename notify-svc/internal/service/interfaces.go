package service

import (
	"context"

	"swayum-canteen/notify-svc/internal/domain"
	"swayum-canteen/notify-svc/internal/storage"
)

type NotificationStore interface {
	GetPreferences(ctx context.Context, userID string) (domain.Preferences, error)
	SetPreferences(ctx context.Context, userID string, prefs domain.Preferences) error
	AppendNotification(ctx context.Context, userID string, notification domain.Notification) error
	ListNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
}

var _ NotificationStore = (*storage.NotificationStore)(nil)
