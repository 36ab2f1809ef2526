package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	"subscription-tracker/internal/domain"
	"subscription-tracker/internal/domain/model"
	"subscription-tracker/internal/domain/ports/repository"
)

// Ensure reminderLogRepo implements repository.ReminderLogRepository
var _ repository.ReminderLogRepository = (*reminderLogRepo)(nil)

type reminderLogRepo struct {
	pool *pgxpool.Pool
}

func NewReminderLogRepo(pool *pgxpool.Pool) *reminderLogRepo {
	return &reminderLogRepo{pool: pool}
}

func (r *reminderLogRepo) Save(ctx context.Context, tx repository.Tx, l *model.ReminderLog) error {
	// The unique index on (subscription_id, renewal_date, days_before) is
	// what makes the reminder sweep idempotent across ticks.
	const q = `
INSERT INTO reminder_logs (id, subscription_id, renewal_date, days_before, sent_at)
VALUES ($1,$2,$3,$4,$5);`
	_, err := execSQL(ctx, r.pool, tx, q,
		l.ID, l.SubscriptionID, l.RenewalDate.String(), l.DaysBefore, l.SentAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		if errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *reminderLogRepo) Exists(ctx context.Context, tx repository.Tx, subscriptionID, renewalDate string, daysBefore int) (bool, error) {
	const q = `
SELECT EXISTS (
  SELECT 1 FROM reminder_logs
   WHERE subscription_id=$1 AND renewal_date=$2::date AND days_before=$3
);`
	row, err := pickRow(ctx, r.pool, tx, q, subscriptionID, renewalDate, daysBefore)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, domain.ErrReadDatabaseRow
	}
	return exists, nil
}
