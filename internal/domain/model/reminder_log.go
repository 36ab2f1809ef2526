package model

import (
	"time"

	"subscription-tracker/internal/domain/civil"
)

// ReminderLog records one delivered renewal reminder. Its natural key
// (subscription, renewal date, lead days) is what makes the reminder
// worker idempotent across ticks.
type ReminderLog struct {
	ID             string // ULID, sortable by creation time
	SubscriptionID string
	RenewalDate    civil.Date
	DaysBefore     int
	SentAt         time.Time
}
