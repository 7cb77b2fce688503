package service

import (
	"time"

	"swayum-canteen/order-svc/internal/domain"

	"github.com/google/uuid"
)

const (
	DefaultSlotStart    = "11:00"
	DefaultSlotEnd      = "20:00"
	DefaultSlotInterval = 30 * time.Minute
)

// GenerateTimeSlots lists pickup slots between start and end on the day of
// now, one per interval, both bounds inclusive. A slot is available only
// when its clock time is strictly after now. Bad bounds fall back to the
// defaults, so the result is never empty.
func GenerateTimeSlots(now time.Time, start, end string, interval time.Duration) []domain.TimeSlot {
	startClock, err := time.Parse("15:04", start)
	if err != nil {
		startClock, _ = time.Parse("15:04", DefaultSlotStart)
	}
	endClock, err := time.Parse("15:04", end)
	if err != nil {
		endClock, _ = time.Parse("15:04", DefaultSlotEnd)
	}
	if interval <= 0 {
		interval = DefaultSlotInterval
	}
	if endClock.Before(startClock) {
		endClock = startClock
	}

	endOfDay := time.Date(now.Year(), now.Month(), now.Day(),
		endClock.Hour(), endClock.Minute(), 0, 0, now.Location())

	slots := []domain.TimeSlot{}
	cursor := time.Date(now.Year(), now.Month(), now.Day(),
		startClock.Hour(), startClock.Minute(), 0, 0, now.Location())
	for !cursor.After(endOfDay) {
		slots = append(slots, domain.TimeSlot{
			ID:        uuid.NewString(),
			Time:      cursor.Format("15:04"),
			Available: cursor.After(now),
		})
		cursor = cursor.Add(interval)
	}

	return slots
}
