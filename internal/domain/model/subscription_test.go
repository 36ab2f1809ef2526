package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"subscription-tracker/internal/domain"
	"subscription-tracker/internal/domain/model"
)

func TestNewSubscriptionValidation(t *testing.T) {
	now := time.Date(2025, 12, 10, 10, 0, 0, 0, time.UTC)
	cost := decimal.RequireFromString("9.99")

	t.Run("valid monthly subscription", func(t *testing.T) {
		s, err := model.NewSubscription("id-1", "Netflix", cost, model.BillingCycleMonthly, "2025-12-13", "entertainment", now)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if s.RenewalDate.String() != "2025-12-13" {
			t.Errorf("renewal date round trip broken: %s", s.RenewalDate)
		}
	})

	t.Run("rejects malformed renewal date", func(t *testing.T) {
		_, err := model.NewSubscription("id-1", "Netflix", cost, model.BillingCycleMonthly, "2025-02-30", "entertainment", now)
		if !errors.Is(err, domain.ErrInvalidDate) {
			t.Errorf("want ErrInvalidDate, got %v", err)
		}
	})

	t.Run("rejects unknown cycle", func(t *testing.T) {
		_, err := model.NewSubscription("id-1", "Netflix", cost, model.BillingCycle("weekly"), "2025-12-13", "", now)
		if !errors.Is(err, domain.ErrInvalidCycle) {
			t.Errorf("want ErrInvalidCycle, got %v", err)
		}
	})

	t.Run("rejects negative cost", func(t *testing.T) {
		_, err := model.NewSubscription("id-1", "Netflix", decimal.NewFromInt(-1), model.BillingCycleMonthly, "2025-12-13", "", now)
		if !errors.Is(err, domain.ErrNegativeCost) {
			t.Errorf("want ErrNegativeCost, got %v", err)
		}
	})

	t.Run("rejects blank name", func(t *testing.T) {
		_, err := model.NewSubscription("id-1", "   ", cost, model.BillingCycleMonthly, "2025-12-13", "", now)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("want ErrInvalidArgument, got %v", err)
		}
	})
}

func TestMonthlyCostNormalization(t *testing.T) {
	now := time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC)

	monthly, err := model.NewSubscription("id-1", "Netflix", decimal.RequireFromString("9.99"), model.BillingCycleMonthly, "2025-12-13", "entertainment", now)
	if err != nil {
		t.Fatal(err)
	}
	if got := monthly.MonthlyCost(); !got.Equal(decimal.RequireFromString("9.99")) {
		t.Errorf("monthly MonthlyCost = %s, want 9.99", got)
	}
	if got := monthly.YearlyCost(); !got.Equal(decimal.RequireFromString("119.88")) {
		t.Errorf("monthly YearlyCost = %s, want 119.88", got)
	}

	yearly, err := model.NewSubscription("id-2", "Backup", decimal.NewFromInt(120), model.BillingCycleYearly, "2026-03-01", "tools", now)
	if err != nil {
		t.Fatal(err)
	}
	if got := yearly.MonthlyCost(); !got.Equal(decimal.NewFromInt(10)) {
		t.Errorf("yearly MonthlyCost = %s, want 10", got)
	}
	if got := yearly.YearlyCost(); !got.Equal(decimal.NewFromInt(120)) {
		t.Errorf("yearly YearlyCost = %s, want 120", got)
	}
}

func TestParseBillingCycle(t *testing.T) {
	if c, err := model.ParseBillingCycle(" Monthly "); err != nil || c != model.BillingCycleMonthly {
		t.Errorf("ParseBillingCycle(Monthly) = %v, %v", c, err)
	}
	if c, err := model.ParseBillingCycle("yearly"); err != nil || c != model.BillingCycleYearly {
		t.Errorf("ParseBillingCycle(yearly) = %v, %v", c, err)
	}
	if _, err := model.ParseBillingCycle("weekly"); !errors.Is(err, domain.ErrInvalidCycle) {
		t.Errorf("ParseBillingCycle(weekly): want ErrInvalidCycle, got %v", err)
	}
}

func TestDaysUntilRenewal(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, 12, 10, 21, 0, 0, 0, loc)
	s, err := model.NewSubscription("id-1", "Netflix", decimal.RequireFromString("9.99"), model.BillingCycleMonthly, "2025-12-13", "", now)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.DaysUntilRenewal(now); got != 3 {
		t.Errorf("DaysUntilRenewal = %d, want 3", got)
	}
}
