package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shopspring/decimal"

	"subscription-tracker/internal/domain"
	"subscription-tracker/internal/domain/civil"
	"subscription-tracker/internal/domain/model"
	"subscription-tracker/internal/domain/ports/repository"
)

// Ensure subscriptionRepo implements repository.SubscriptionRepository
var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

// Renewal dates cross this layer as bare YYYY-MM-DD text against a DATE
// column. Binding them as timestamps would reintroduce the UTC-midnight
// shift the civil package exists to prevent.
const subscriptionColumns = `
id, name, cost::text, billing_cycle, to_char(renewal_date, 'YYYY-MM-DD'),
category, domain, description, reminders, is_custom_renewal_date, created_at, updated_at`

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

func (r *subscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	const q = `
INSERT INTO subscriptions (
  id, name, cost, billing_cycle, renewal_date, category, domain, description, reminders, is_custom_renewal_date, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
ON CONFLICT (id) DO UPDATE SET
  name=$2, cost=$3, billing_cycle=$4, renewal_date=$5, category=$6, domain=$7,
  description=$8, reminders=$9, is_custom_renewal_date=$10, updated_at=$12;`

	reminders, err := json.Marshal(s.Reminders)
	if err != nil {
		return domain.ErrInvalidArgument
	}
	_, err = execSQL(ctx, r.pool, tx, q,
		s.ID, s.Name, s.Cost.String(), string(s.BillingCycle), s.RenewalDate.String(),
		s.Category, s.Domain, s.Description, reminders, s.IsCustomRenewalDate, s.CreatedAt, s.UpdatedAt)
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

func (r *subscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	const q = `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	s, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *subscriptionRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Subscription, error) {
	const q = `SELECT ` + subscriptionColumns + ` FROM subscriptions ORDER BY created_at ASC, id ASC;`
	return r.queryMany(ctx, tx, q)
}

func (r *subscriptionRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `DELETE FROM subscriptions WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *subscriptionRepo) FindRenewingWithin(ctx context.Context, tx repository.Tx, fromDate, toDate string) ([]*model.Subscription, error) {
	// DATE-to-DATE comparison; both bounds inclusive
	const q = `SELECT ` + subscriptionColumns + `
  FROM subscriptions
 WHERE renewal_date >= $1::date AND renewal_date <= $2::date
 ORDER BY renewal_date ASC, created_at ASC;`
	return r.queryMany(ctx, tx, q, fromDate, toDate)
}

func (r *subscriptionRepo) queryMany(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.Subscription, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidExecContext) {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()
	var out []*model.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func scanSubscription(row pgx.Row) (*model.Subscription, error) {
	var (
		s            model.Subscription
		costText     string
		cycle        string
		renewalText  string
		remindersRaw []byte
	)
	err := row.Scan(&s.ID, &s.Name, &costText, &cycle, &renewalText,
		&s.Category, &s.Domain, &s.Description, &remindersRaw, &s.IsCustomRenewalDate, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if s.Cost, err = decimal.NewFromString(costText); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	s.BillingCycle = model.BillingCycle(cycle)
	if s.RenewalDate, err = civil.Parse(renewalText); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	if len(remindersRaw) > 0 {
		if err := json.Unmarshal(remindersRaw, &s.Reminders); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
	}
	return &s, nil
}
