// Package analytics derives renewal timelines, cost aggregates, and
// heuristic insights from a subscription collection. Every function is
// pure: results depend only on the inputs and the explicit now reference,
// no state survives between calls, and concurrent invocation needs no
// synchronization. Callers should pass the same now through a batch of
// related computations so buckets and insights agree on where midnight is.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"subscription-tracker/internal/domain/model"
)

var (
	zero    = decimal.Zero
	hundred = decimal.NewFromInt(100)
)

// CategoryCost is one row of a category breakdown: the summed
// monthly-normalized cost plus its share of the grand total.
type CategoryCost struct {
	Category    string
	MonthlyCost decimal.Decimal
	Percent     decimal.Decimal
}

// CycleDistribution counts subscriptions per billing cycle.
type CycleDistribution struct {
	Monthly int
	Yearly  int
}

// TotalMonthlyCost sums the monthly-normalized cost of every record.
func TotalMonthlyCost(subs []*model.Subscription) decimal.Decimal {
	total := zero
	for _, s := range subs {
		total = total.Add(s.MonthlyCost())
	}
	return total
}

// TotalYearlyCost sums the yearly-normalized cost of every record.
func TotalYearlyCost(subs []*model.Subscription) decimal.Decimal {
	total := zero
	for _, s := range subs {
		total = total.Add(s.YearlyCost())
	}
	return total
}

// AverageMonthlyCost is TotalMonthlyCost over the record count, and zero
// for an empty collection.
func AverageMonthlyCost(subs []*model.Subscription) decimal.Decimal {
	if len(subs) == 0 {
		return zero
	}
	return TotalMonthlyCost(subs).Div(decimal.NewFromInt(int64(len(subs))))
}

// CategoryBreakdown maps each category label to its summed monthly cost.
func CategoryBreakdown(subs []*model.Subscription) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(subs))
	for _, s := range subs {
		out[s.Category] = out[s.Category].Add(s.MonthlyCost())
	}
	return out
}

// CategorySorted attaches each category's percentage of the grand total
// and returns rows sorted by descending cost. Percentages are zero when
// the grand total is zero. Ties sort by category name so the order is
// deterministic for identical input.
func CategorySorted(subs []*model.Subscription) []CategoryCost {
	breakdown := CategoryBreakdown(subs)
	total := TotalMonthlyCost(subs)

	out := make([]CategoryCost, 0, len(breakdown))
	for category, cost := range breakdown {
		percent := zero
		if total.IsPositive() {
			percent = cost.Div(total).Mul(hundred)
		}
		out = append(out, CategoryCost{Category: category, MonthlyCost: cost, Percent: percent})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].MonthlyCost.Equal(out[j].MonthlyCost) {
			return out[i].MonthlyCost.GreaterThan(out[j].MonthlyCost)
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Distribution counts monthly-billed vs yearly-billed records.
func Distribution(subs []*model.Subscription) CycleDistribution {
	var d CycleDistribution
	for _, s := range subs {
		switch s.BillingCycle {
		case model.BillingCycleYearly:
			d.Yearly++
		default:
			d.Monthly++
		}
	}
	return d
}
