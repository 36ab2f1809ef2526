package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"subscription-tracker/internal/domain"
	"subscription-tracker/internal/domain/civil"
)

type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

var monthsPerYear = decimal.NewFromInt(12)

// ParseBillingCycle validates a cycle string from an external boundary.
func ParseBillingCycle(s string) (BillingCycle, error) {
	switch BillingCycle(strings.ToLower(strings.TrimSpace(s))) {
	case BillingCycleMonthly:
		return BillingCycleMonthly, nil
	case BillingCycleYearly:
		return BillingCycleYearly, nil
	default:
		return "", domain.ErrInvalidCycle
	}
}

// Subscription is a tracked recurring service. The analytics core treats
// it as read-only input; it only ever derives values from it.
type Subscription struct {
	ID                  string // UUID
	Name                string
	Cost                decimal.Decimal // per one billing cycle
	BillingCycle        BillingCycle
	RenewalDate         civil.Date
	Category            string
	Domain              string
	Description         string
	Reminders           []int // lead days before renewal
	IsCustomRenewalDate bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewSubscription validates and constructs a subscription. renewalDate is
// the boundary's YYYY-MM-DD civil-date string; a malformed or impossible
// date fails with domain.ErrInvalidDate rather than being rolled forward.
func NewSubscription(id, name string, cost decimal.Decimal, cycle BillingCycle, renewalDate, category string, now time.Time) (*Subscription, error) {
	if id == "" || strings.TrimSpace(name) == "" {
		return nil, domain.ErrInvalidArgument
	}
	if cycle != BillingCycleMonthly && cycle != BillingCycleYearly {
		return nil, domain.ErrInvalidCycle
	}
	if cost.IsNegative() {
		return nil, domain.ErrNegativeCost
	}
	date, err := civil.Parse(renewalDate)
	if err != nil {
		return nil, err
	}
	return &Subscription{
		ID:           id,
		Name:         strings.TrimSpace(name),
		Cost:         cost,
		BillingCycle: cycle,
		RenewalDate:  date,
		Category:     category,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// MonthlyCost normalizes the cost to a one-month unit: yearly costs are
// divided by twelve, monthly costs pass through unchanged.
func (s *Subscription) MonthlyCost() decimal.Decimal {
	if s.BillingCycle == BillingCycleYearly {
		return s.Cost.Div(monthsPerYear)
	}
	return s.Cost
}

// YearlyCost normalizes the cost to a one-year unit.
func (s *Subscription) YearlyCost() decimal.Decimal {
	if s.BillingCycle == BillingCycleYearly {
		return s.Cost
	}
	return s.Cost.Mul(monthsPerYear)
}

// DaysUntilRenewal is the signed whole-day offset from now's calendar day
// to the renewal date, computed in now's timezone.
func (s *Subscription) DaysUntilRenewal(now time.Time) int {
	return civil.DaysUntil(s.RenewalDate, now)
}
