package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"subscription-tracker/internal/domain"
	"subscription-tracker/internal/domain/civil"
	"subscription-tracker/internal/domain/model"
	"subscription-tracker/internal/domain/ports/repository"
)

// Compile-time check
var _ SubscriptionUseCase = (*subscriptionUC)(nil)

// SubscriptionInput carries boundary values for create/update. Cost and
// RenewalDate arrive as strings and are validated here, never guessed at.
type SubscriptionInput struct {
	Name         string
	Cost         string
	BillingCycle string
	RenewalDate  string // YYYY-MM-DD
	Category     string
	Domain       string
	Description  string
	Reminders    []int
}

type SubscriptionUseCase interface {
	Create(ctx context.Context, in SubscriptionInput) (*model.Subscription, error)
	Update(ctx context.Context, id string, in SubscriptionInput) (*model.Subscription, error)
	Get(ctx context.Context, id string) (*model.Subscription, error)
	List(ctx context.Context) ([]*model.Subscription, error)
	Delete(ctx context.Context, id string) error

	// Upcoming returns subscriptions renewing within n days of now, today
	// included. The window filter runs against stored DATE values, not in
	// application code.
	Upcoming(ctx context.Context, days int, now time.Time) ([]*model.Subscription, error)
}

type subscriptionUC struct {
	repo repository.SubscriptionRepository
	tm   repository.TransactionManager
	log  *zerolog.Logger
}

func NewSubscriptionUseCase(repo repository.SubscriptionRepository, tm repository.TransactionManager, logger *zerolog.Logger) *subscriptionUC {
	return &subscriptionUC{repo: repo, tm: tm, log: logger}
}

func (uc *subscriptionUC) Create(ctx context.Context, in SubscriptionInput) (*model.Subscription, error) {
	sub, err := buildSubscription(uuid.NewString(), in, time.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Save(ctx, repository.NoTX, sub); err != nil {
		return nil, err
	}
	uc.log.Info().Str("id", sub.ID).Str("name", sub.Name).Str("renewal", sub.RenewalDate.String()).Msg("subscription created")
	return sub, nil
}

func (uc *subscriptionUC) Update(ctx context.Context, id string, in SubscriptionInput) (*model.Subscription, error) {
	sub, err := buildSubscription(id, in, time.Now())
	if err != nil {
		return nil, err
	}

	// Read and write as one atomic operation so a concurrent update
	// cannot slip between the find and the save.
	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err = uc.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		existing, err := uc.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		sub.CreatedAt = existing.CreatedAt
		sub.IsCustomRenewalDate = existing.IsCustomRenewalDate || in.RenewalDate != existing.RenewalDate.String()
		return uc.repo.Save(ctx, tx, sub)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("id", id).Msg("subscription updated")
	return sub, nil
}

func (uc *subscriptionUC) Get(ctx context.Context, id string) (*model.Subscription, error) {
	return uc.repo.FindByID(ctx, repository.NoTX, id)
}

func (uc *subscriptionUC) List(ctx context.Context) ([]*model.Subscription, error) {
	return uc.repo.List(ctx, repository.NoTX)
}

func (uc *subscriptionUC) Upcoming(ctx context.Context, days int, now time.Time) ([]*model.Subscription, error) {
	if days <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	from := civil.DateOf(now)
	return uc.repo.FindRenewingWithin(ctx, repository.NoTX, from.String(), from.AddDays(days).String())
}

func (uc *subscriptionUC) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, repository.NoTX, id); err != nil {
		return err
	}
	uc.log.Info().Str("id", id).Msg("subscription deleted")
	return nil
}

func buildSubscription(id string, in SubscriptionInput, now time.Time) (*model.Subscription, error) {
	cycle, err := model.ParseBillingCycle(in.BillingCycle)
	if err != nil {
		return nil, err
	}
	cost, err := decimal.NewFromString(in.Cost)
	if err != nil {
		return nil, domain.ErrInvalidArgument
	}
	sub, err := model.NewSubscription(id, in.Name, cost, cycle, in.RenewalDate, in.Category, now)
	if err != nil {
		return nil, err
	}
	sub.Domain = in.Domain
	sub.Description = in.Description
	sub.Reminders = in.Reminders
	return sub, nil
}
