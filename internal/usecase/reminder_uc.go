package usecase

import (
	"context"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"subscription-tracker/internal/domain"
	"subscription-tracker/internal/domain/model"
	"subscription-tracker/internal/domain/ports/adapter"
	"subscription-tracker/internal/domain/ports/repository"
	"subscription-tracker/internal/infra/logging"
)

// Compile-time check
var _ ReminderUseCase = (*reminderUC)(nil)

// DefaultReminderLeads applies to subscriptions with no explicit reminder
// schedule: a week out and on the renewal day itself. Day 0 counts as
// upcoming, matching the timeline policy.
var DefaultReminderLeads = []int{7, 0}

type ReminderUseCase interface {
	// CheckAndSendDue delivers every reminder whose lead window matches
	// now's calendar day and has not been sent before. It returns the
	// number delivered. The call is idempotent across repeated ticks for
	// the same civil date.
	CheckAndSendDue(ctx context.Context, now time.Time) (int, error)
}

type reminderUC struct {
	subs     repository.SubscriptionRepository
	logRepo  repository.ReminderLogRepository
	notifier adapter.Notifier
	entropy  *rand.Rand
	log      *zerolog.Logger
}

func NewReminderUseCase(subs repository.SubscriptionRepository, logRepo repository.ReminderLogRepository, notifier adapter.Notifier, logger *zerolog.Logger) *reminderUC {
	return &reminderUC{
		subs:     subs,
		logRepo:  logRepo,
		notifier: notifier,
		entropy:  rand.New(rand.NewSource(time.Now().UnixNano())),
		log:      logger,
	}
}

func (uc *reminderUC) CheckAndSendDue(ctx context.Context, now time.Time) (int, error) {
	defer logging.TraceDuration(uc.log, "ReminderUC.CheckAndSendDue")()

	list, err := uc.subs.List(ctx, repository.NoTX)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, sub := range list {
		off := sub.DaysUntilRenewal(now)
		if off < 0 {
			continue
		}
		for _, lead := range reminderLeads(sub) {
			if off != lead {
				continue
			}
			n, err := uc.sendOne(ctx, sub, lead, now)
			if err != nil {
				uc.log.Error().Err(err).Str("subscription_id", sub.ID).Int("lead_days", lead).Msg("reminder delivery failed")
				continue
			}
			sent += n
		}
	}
	return sent, nil
}

func (uc *reminderUC) sendOne(ctx context.Context, sub *model.Subscription, lead int, now time.Time) (int, error) {
	renewal := sub.RenewalDate.String()
	exists, err := uc.logRepo.Exists(ctx, repository.NoTX, sub.ID, renewal, lead)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, nil
	}

	err = uc.notifier.SendReminder(ctx, adapter.Reminder{
		SubscriptionID:   sub.ID,
		SubscriptionName: sub.Name,
		RenewalDate:      renewal,
		DaysBefore:       lead,
		Cost:             sub.Cost.StringFixed(2),
	})
	if err != nil {
		return 0, err
	}

	entry := &model.ReminderLog{
		ID:             ulid.MustNew(ulid.Timestamp(now), uc.entropy).String(),
		SubscriptionID: sub.ID,
		RenewalDate:    sub.RenewalDate,
		DaysBefore:     lead,
		SentAt:         now,
	}
	if err := uc.logRepo.Save(ctx, repository.NoTX, entry); err != nil && err != domain.ErrAlreadyExists {
		// delivered but not recorded; the next tick may resend
		uc.log.Warn().Err(err).Str("subscription_id", sub.ID).Msg("reminder log save failed")
	}
	uc.log.Info().Str("subscription_id", sub.ID).Str("renewal", renewal).Int("lead_days", lead).Msg("reminder sent")
	return 1, nil
}

func reminderLeads(sub *model.Subscription) []int {
	if len(sub.Reminders) > 0 {
		return sub.Reminders
	}
	return DefaultReminderLeads
}
