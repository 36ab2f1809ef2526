package adapter

import "context"

// Reminder is one renewal notice handed to the push boundary. Dates stay
// bare civil-date strings across this interface; reintroducing an instant
// here reintroduces the timezone-drift defect the core exists to prevent.
type Reminder struct {
	SubscriptionID   string
	SubscriptionName string
	RenewalDate      string // YYYY-MM-DD
	DaysBefore       int
	Cost             string
}

// Notifier delivers renewal reminders to the user-facing push channel.
type Notifier interface {
	SendReminder(ctx context.Context, r Reminder) error
}
