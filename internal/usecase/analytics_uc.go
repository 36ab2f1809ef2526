package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"subscription-tracker/internal/domain/analytics"
	"subscription-tracker/internal/domain/civil"
	"subscription-tracker/internal/domain/model"
	"subscription-tracker/internal/domain/ports/repository"
	"subscription-tracker/internal/infra/logging"
)

// Compile-time check
var _ AnalyticsUseCase = (*analyticsUC)(nil)

// Summary is the aggregate cost view model: everything the presentation
// layer needs to render the overview screen, already computed. Values
// carry no currency formatting; that stays a presentation concern.
type Summary struct {
	AsOf               string                      `json:"as_of"` // civil date the numbers were computed for
	TotalSubscriptions int                         `json:"total_subscriptions"`
	TotalMonthlyCost   decimal.Decimal             `json:"total_monthly_cost"`
	TotalYearlyCost    decimal.Decimal             `json:"total_yearly_cost"`
	AverageMonthlyCost decimal.Decimal             `json:"average_monthly_cost"`
	Categories         []analytics.CategoryCost    `json:"categories"`
	Cycles             analytics.CycleDistribution `json:"cycles"`
	NextRenewalDate    *string                     `json:"next_renewal_date"` // null with no upcoming renewal
}

// TimelineEntry is one renewal row of the timeline view.
type TimelineEntry struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	RenewalDate string          `json:"renewal_date"`
	DaysUntil   int             `json:"days_until"`
	Cost        decimal.Decimal `json:"cost"`
}

// TimelineView is the three-bucket renewal partition.
type TimelineView struct {
	AsOf      string          `json:"as_of"`
	ThisWeek  []TimelineEntry `json:"this_week"`
	NextWeek  []TimelineEntry `json:"next_week"`
	ThisMonth []TimelineEntry `json:"this_month"`
}

// SummaryCache is the optional read-through cache for computed summaries.
// A nil cache disables caching entirely.
type SummaryCache interface {
	GetSummary(ctx context.Context, key string) (*Summary, error)
	StoreSummary(ctx context.Context, key string, s *Summary) error
}

type AnalyticsUseCase interface {
	// Summary, Timeline, and Insights take an explicit now so a render
	// pass can compute all three against the same midnight. Sampling the
	// clock inside each call is how buckets and insights end up skewed.
	Summary(ctx context.Context, now time.Time) (*Summary, error)
	Timeline(ctx context.Context, horizonDays int, now time.Time) (*TimelineView, error)
	Insights(ctx context.Context, now time.Time) ([]analytics.Insight, error)
}

type analyticsUC struct {
	subs  repository.SubscriptionRepository
	cache SummaryCache
	log   *zerolog.Logger
}

func NewAnalyticsUseCase(subs repository.SubscriptionRepository, cache SummaryCache, logger *zerolog.Logger) *analyticsUC {
	return &analyticsUC{subs: subs, cache: cache, log: logger}
}

func (uc *analyticsUC) Summary(ctx context.Context, now time.Time) (*Summary, error) {
	defer logging.TraceDuration(uc.log, "AnalyticsUC.Summary")()

	key := "summary:" + civil.DateOf(now).String()
	if uc.cache != nil {
		if cached, err := uc.cache.GetSummary(ctx, key); err == nil && cached != nil {
			return cached, nil
		}
	}

	list, err := uc.subs.List(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}

	s := &Summary{
		AsOf:               civil.DateOf(now).String(),
		TotalSubscriptions: len(list),
		TotalMonthlyCost:   analytics.TotalMonthlyCost(list),
		TotalYearlyCost:    analytics.TotalYearlyCost(list),
		AverageMonthlyCost: analytics.AverageMonthlyCost(list),
		Categories:         analytics.CategorySorted(list),
		Cycles:             analytics.Distribution(list),
	}
	if next, ok := analytics.NextRenewal(list, now); ok {
		d := next.String()
		s.NextRenewalDate = &d
	}

	if uc.cache != nil {
		if err := uc.cache.StoreSummary(ctx, key, s); err != nil {
			uc.log.Warn().Err(err).Msg("summary cache store failed")
		}
	}
	return s, nil
}

func (uc *analyticsUC) Timeline(ctx context.Context, horizonDays int, now time.Time) (*TimelineView, error) {
	if horizonDays <= 0 {
		horizonDays = analytics.DefaultHorizonDays
	}
	list, err := uc.subs.List(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	tl := analytics.Bucketize(list, horizonDays, now)
	return &TimelineView{
		AsOf:      civil.DateOf(now).String(),
		ThisWeek:  toEntries(tl.ThisWeek, now),
		NextWeek:  toEntries(tl.NextWeek, now),
		ThisMonth: toEntries(tl.ThisMonth, now),
	}, nil
}

func (uc *analyticsUC) Insights(ctx context.Context, now time.Time) ([]analytics.Insight, error) {
	list, err := uc.subs.List(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	return analytics.Generate(list, now), nil
}

func toEntries(subs []*model.Subscription, now time.Time) []TimelineEntry {
	out := make([]TimelineEntry, 0, len(subs))
	for _, s := range subs {
		out = append(out, TimelineEntry{
			ID:          s.ID,
			Name:        s.Name,
			RenewalDate: s.RenewalDate.String(),
			DaysUntil:   s.DaysUntilRenewal(now),
			Cost:        s.Cost,
		})
	}
	return out
}
