package sched

import (
	"context"
	"time"

	"subscription-tracker/internal/infra/metrics"
	"subscription-tracker/internal/usecase"

	"github.com/rs/zerolog"
)

type ReminderWorker struct {
	interval   time.Duration
	reminderUC usecase.ReminderUseCase
	log        *zerolog.Logger
}

func NewReminderWorker(interval time.Duration, reminderUC usecase.ReminderUseCase, logger *zerolog.Logger) *ReminderWorker {
	compLog := logger.With().Str("component", "ReminderWorker").Logger()
	return &ReminderWorker{
		interval:   interval,
		reminderUC: reminderUC,
		log:        &compLog,
	}
}

func (w *ReminderWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting reminder worker")
	// Run once on startup, then on every tick
	w.runSweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping reminder worker")
			return ctx.Err()
		case <-ticker.C:
			w.runSweep(ctx)
		}
	}
}

func (w *ReminderWorker) runSweep(ctx context.Context) {
	sent, err := w.reminderUC.CheckAndSendDue(ctx, time.Now())
	if err != nil {
		metrics.IncReminderSweepFailures()
		w.log.Error().Err(err).Msg("reminder sweep failed")
	}
	if sent > 0 {
		metrics.IncRemindersSent(sent)
		w.log.Info().Int("count", sent).Msg("renewal reminders sent")
	}
}
