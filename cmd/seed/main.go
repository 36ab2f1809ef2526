package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"subscription-tracker/internal/config"
	pg "subscription-tracker/internal/infra/db/postgres"
	"subscription-tracker/internal/infra/logging"
	"subscription-tracker/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	subRepo := pg.NewSubscriptionRepo(pool)
	subUC := usecase.NewSubscriptionUseCase(subRepo, pg.NewTxManager(pool), logging.New(cfg.Log, false))

	// If subscriptions already exist, do nothing
	existing, err := subUC.List(ctx)
	if err != nil {
		log.Fatalf("list subscriptions: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("%d subscriptions already present. No changes.\n", len(existing))
		for _, s := range existing {
			fmt.Printf("  - %s (%s, $%s, renews %s)\n", s.Name, s.BillingCycle, s.Cost.String(), s.RenewalDate.String())
		}
		return
	}

	// Renewal dates are relative to today so the timeline demo has
	// entries in every bucket.
	today := time.Now()
	day := func(offset int) string {
		return today.AddDate(0, 0, offset).Format("2006-01-02")
	}

	seed := []usecase.SubscriptionInput{
		{Name: "Netflix", Cost: "9.99", BillingCycle: "monthly", RenewalDate: day(3), Category: "Entertainment", Domain: "netflix.com"},
		{Name: "Spotify", Cost: "5.99", BillingCycle: "monthly", RenewalDate: day(8), Category: "Entertainment", Domain: "spotify.com"},
		{Name: "iCloud Storage", Cost: "2.99", BillingCycle: "monthly", RenewalDate: day(12), Category: "Utilities", Domain: "icloud.com"},
		{Name: "Adobe Creative Cloud", Cost: "54.99", BillingCycle: "monthly", RenewalDate: day(20), Category: "Productivity", Domain: "adobe.com"},
		{Name: "Backup Service", Cost: "120", BillingCycle: "yearly", RenewalDate: day(27), Category: "Utilities", Domain: "backblaze.com", Reminders: []int{14, 7, 0}},
	}

	for _, in := range seed {
		s, err := subUC.Create(ctx, in)
		if err != nil {
			log.Fatalf("create subscription %q: %v", in.Name, err)
		}
		fmt.Printf("seeded: %s (id=%s, $%s %s, renews %s)\n", s.Name, s.ID, s.Cost.String(), s.BillingCycle, s.RenewalDate.String())
	}

	fmt.Println("✅ Seeding complete.")
}
