package repository

import (
	"context"

	"subscription-tracker/internal/domain/model"
)

// SubscriptionRepository is the port for the stored subscription
// collection. List returns records in a stable creation order; the
// analytics core depends on that order for its bucket partitions.
type SubscriptionRepository interface {
	Save(ctx context.Context, tx Tx, sub *model.Subscription) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Subscription, error)
	List(ctx context.Context, tx Tx) ([]*model.Subscription, error)
	Delete(ctx context.Context, tx Tx, id string) error

	// FindRenewingWithin returns subscriptions whose renewal date lies
	// between the two civil-date strings inclusive (YYYY-MM-DD). The
	// comparison happens on DATE values; no instant conversion is involved.
	FindRenewingWithin(ctx context.Context, tx Tx, fromDate, toDate string) ([]*model.Subscription, error)
}

// ReminderLogRepository records delivered reminders so the worker never
// sends the same (subscription, renewal date, lead) twice.
type ReminderLogRepository interface {
	Save(ctx context.Context, tx Tx, entry *model.ReminderLog) error
	Exists(ctx context.Context, tx Tx, subscriptionID, renewalDate string, daysBefore int) (bool, error)
}
