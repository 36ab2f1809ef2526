package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"subscription-tracker/internal/domain/model"
)

type InsightType string

const (
	InsightSavings  InsightType = "savings"
	InsightSpending InsightType = "spending"
	InsightRenewal  InsightType = "renewal"
	InsightCount    InsightType = "count"
)

type InsightPriority string

const (
	PriorityHigh   InsightPriority = "high"
	PriorityMedium InsightPriority = "medium"
	PriorityLow    InsightPriority = "low"
)

// Insight is one prioritized heuristic observation over the collection.
type Insight struct {
	Type     InsightType     `json:"type"`
	Message  string          `json:"message"`
	Priority InsightPriority `json:"priority"`
}

const (
	maxInsights          = 4
	upcomingWindowDays   = 7
	volumeThreshold      = 10
	concentrationPercent = 40
)

var (
	// assumed discount when converting monthly billing to yearly
	yearlyDiscount   = decimal.RequireFromString("0.15")
	savingsThreshold = decimal.NewFromInt(10)
)

// heuristics run in this fixed order; each contributes zero or one
// insight. The generator stays extensible without touching the date or
// cost primitives: add an entry here.
var heuristics = []func(subs []*model.Subscription, now time.Time) (Insight, bool){
	savingsHeuristic,
	concentrationHeuristic,
	upcomingRenewalHeuristic,
	volumeHeuristic,
}

// Generate evaluates the heuristic pipeline and returns at most four
// insights. Identical input and identical now always yield an identical
// list; the cap is a safety bound, not an active filter, while all four
// heuristics emit at most one insight each.
func Generate(subs []*model.Subscription, now time.Time) []Insight {
	out := make([]Insight, 0, maxInsights)
	for _, h := range heuristics {
		if len(out) == maxInsights {
			break
		}
		if ins, ok := h(subs, now); ok {
			out = append(out, ins)
		}
	}
	return out
}

// savingsHeuristic prices converting every monthly-billed subscription to
// yearly billing at the assumed discount and fires when the saved amount
// clears the threshold.
func savingsHeuristic(subs []*model.Subscription, _ time.Time) (Insight, bool) {
	var monthlyBilled []*model.Subscription
	for _, s := range subs {
		if s.BillingCycle == model.BillingCycleMonthly {
			monthlyBilled = append(monthlyBilled, s)
		}
	}
	if len(monthlyBilled) == 0 {
		return Insight{}, false
	}
	yearlyEquivalent := TotalYearlyCost(monthlyBilled)
	saved := yearlyEquivalent.Mul(yearlyDiscount)
	if !saved.GreaterThan(savingsThreshold) {
		return Insight{}, false
	}
	return Insight{
		Type:     InsightSavings,
		Priority: PriorityHigh,
		Message: fmt.Sprintf("Switching %d monthly subscription(s) to yearly billing could save about $%s per year",
			len(monthlyBilled), saved.StringFixed(2)),
	}, true
}

// concentrationHeuristic fires when the top category carries more than
// 40 percent of total monthly spend.
func concentrationHeuristic(subs []*model.Subscription, _ time.Time) (Insight, bool) {
	sorted := CategorySorted(subs)
	if len(sorted) == 0 {
		return Insight{}, false
	}
	top := sorted[0]
	if !top.Percent.GreaterThan(decimal.NewFromInt(concentrationPercent)) {
		return Insight{}, false
	}
	return Insight{
		Type:     InsightSpending,
		Priority: PriorityMedium,
		Message: fmt.Sprintf("%s makes up %s%% of your monthly spend",
			top.Category, top.Percent.StringFixed(0)),
	}, true
}

// upcomingRenewalHeuristic fires when renewals fall within the next seven
// days, today included, reporting their combined raw cost.
func upcomingRenewalHeuristic(subs []*model.Subscription, now time.Time) (Insight, bool) {
	upcoming := UpcomingWithin(subs, upcomingWindowDays, now)
	if len(upcoming) == 0 {
		return Insight{}, false
	}
	total := zero
	for _, s := range upcoming {
		total = total.Add(s.Cost)
	}
	return Insight{
		Type:     InsightRenewal,
		Priority: PriorityHigh,
		Message: fmt.Sprintf("%d subscription(s) renew within 7 days for a combined $%s",
			len(upcoming), total.StringFixed(2)),
	}, true
}

// volumeHeuristic nudges a review once the collection grows past ten.
func volumeHeuristic(subs []*model.Subscription, _ time.Time) (Insight, bool) {
	if len(subs) <= volumeThreshold {
		return Insight{}, false
	}
	return Insight{
		Type:     InsightCount,
		Priority: PriorityLow,
		Message:  fmt.Sprintf("You are tracking %d subscriptions; a review may surface ones you no longer use", len(subs)),
	}, true
}
