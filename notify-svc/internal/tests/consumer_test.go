package tests

import (
	"context"
	"testing"
	"time"

	"swayum-canteen/notify-svc/internal/domain"
	"swayum-canteen/notify-svc/internal/mocks"
	"swayum-canteen/notify-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func statusEvent(status string) domain.OrderEvent {
	return domain.OrderEvent{
		Type:      domain.EventStatusChanged,
		OrderID:   42,
		RefID:     "SW-250830-0042",
		UserID:    "user-1",
		NewStatus: status,
		Timestamp: time.Now(),
	}
}

func TestConsumer_ProcessEvent(t *testing.T) {
	tests := []struct {
		name         string
		event        domain.OrderEvent
		prefs        domain.Preferences
		wantMessage  string
		wantSound    bool
		wantAppended bool
	}{
		{
			name:         "preparing",
			event:        statusEvent("preparing"),
			prefs:        domain.DefaultPreferences(),
			wantMessage:  "Your order is being prepared",
			wantAppended: true,
		},
		{
			name:         "ready with sound",
			event:        statusEvent("ready"),
			prefs:        domain.Preferences{NotificationsEnabled: true, SoundEnabled: true},
			wantMessage:  "Your order is ready for pickup",
			wantSound:    true,
			wantAppended: true,
		},
		{
			name:         "completed",
			event:        statusEvent("completed"),
			prefs:        domain.DefaultPreferences(),
			wantMessage:  "Thank you for collecting your order",
			wantAppended: true,
		},
		{
			name:  "notifications disabled",
			event: statusEvent("ready"),
			prefs: domain.Preferences{NotificationsEnabled: false},
		},
		{
			name:  "received has no message",
			event: statusEvent("received"),
			prefs: domain.DefaultPreferences(),
		},
		{
			name: "creation events are skipped",
			event: domain.OrderEvent{
				Type: "order_created", OrderID: 42, UserID: "user-1", NewStatus: "received",
			},
		},
		{
			name:  "guest orders have no feed",
			event: domain.OrderEvent{Type: domain.EventStatusChanged, OrderID: 42, NewStatus: "ready"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			store := new(mocks.NotificationStore)

			needsPrefs := testCase.event.Type == domain.EventStatusChanged &&
				testCase.event.UserID != "" &&
				testCase.event.NewStatus != "received"
			if needsPrefs {
				store.On("GetPreferences", mock.Anything, "user-1").Return(testCase.prefs, nil).Once()
			}
			if testCase.wantAppended {
				store.On("AppendNotification", mock.Anything, "user-1", mock.MatchedBy(func(n domain.Notification) bool {
					return n.Message == testCase.wantMessage && n.Sound == testCase.wantSound && n.OrderID == 42
				})).Return(nil).Once()
			}

			consumer := service.NewConsumer(store)
			err := consumer.ProcessEvent(context.Background(), testCase.event)

			assert.NoError(t, err)
			store.AssertExpectations(t)
			if !testCase.wantAppended {
				store.AssertNotCalled(t, "AppendNotification", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}
