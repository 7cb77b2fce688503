package mocks

import (
	"context"

	"swayum-canteen/notify-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type NotificationStore struct {
	mock.Mock
}

func (m *NotificationStore) GetPreferences(ctx context.Context, userID string) (domain.Preferences, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.Preferences), args.Error(1)
}

func (m *NotificationStore) SetPreferences(ctx context.Context, userID string, prefs domain.Preferences) error {
	return m.Called(ctx, userID, prefs).Error(0)
}

func (m *NotificationStore) AppendNotification(ctx context.Context, userID string, notification domain.Notification) error {
	return m.Called(ctx, userID, notification).Error(0)
}

func (m *NotificationStore) ListNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}
