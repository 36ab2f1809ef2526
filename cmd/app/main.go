package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"subscription-tracker/internal/config"
	"subscription-tracker/internal/domain/ports/adapter"
	"subscription-tracker/internal/infra/adapters/notify"
	pg "subscription-tracker/internal/infra/db/postgres"
	"subscription-tracker/internal/infra/logging"
	"subscription-tracker/internal/infra/metrics"
	red "subscription-tracker/internal/infra/redis"
	"subscription-tracker/internal/infra/sched"
	"subscription-tracker/internal/infra/web"
	"subscription-tracker/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, relaxed cookies)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()

	// ---- Redis (optional; summaries just go uncached without it) ----
	var summaryCache usecase.SummaryCache
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connect failed")
		}
		defer redisClient.Close()
		summaryCache = red.NewSummaryCache(redisClient, cfg.Analytics.SummaryCacheTTL)
	} else {
		logger.Warn().Msg("redis.url not set; summary caching disabled")
	}

	// ---- Repositories ----
	subRepo := pg.NewSubscriptionRepo(pool)
	logRepo := pg.NewReminderLogRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Notifier ----
	var notifier adapter.Notifier
	if cfg.Reminders.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.Reminders.WebhookURL, logger)
	} else {
		logger.Warn().Msg("reminders.webhook_url not set; reminders are recorded but not delivered")
		notifier = notify.NewNoopNotifier()
	}

	// ---- Use cases ----
	subUC := usecase.NewSubscriptionUseCase(subRepo, txManager, logging.Component(logger, "SubscriptionUC"))
	analyticsUC := usecase.NewAnalyticsUseCase(subRepo, summaryCache, logging.Component(logger, "AnalyticsUC"))
	reminderUC := usecase.NewReminderUseCase(subRepo, logRepo, notifier, logging.Component(logger, "ReminderUC"))

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.SecureCookie && !cfg.Runtime.Dev, cfg.Auth.CookieDomain, cfg.Auth.SessionTTL)
	srv := web.NewServer(subUC, analyticsUC, cfg.Server.APIKey, auth, cfg.Analytics.HorizonDays, logging.Component(logger, "Web"))
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Routes(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Reminder worker ----
	worker := sched.NewReminderWorker(cfg.Reminders.Interval, reminderUC, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
}
