package analytics

import (
	"time"

	"subscription-tracker/internal/domain/civil"
	"subscription-tracker/internal/domain/model"
)

// DefaultHorizonDays is the renewal timeline lookahead window.
const DefaultHorizonDays = 30

// upcomingMinOffset fixes the "does today count as upcoming" policy in
// one place: a renewal due today (offset 0) is upcoming everywhere.
const upcomingMinOffset = 0

// Timeline partitions upcoming renewals into three non-overlapping
// windows. Within each bucket the relative order of the input is kept.
type Timeline struct {
	ThisWeek  []*model.Subscription
	NextWeek  []*model.Subscription
	ThisMonth []*model.Subscription
}

// Bucketize groups subscriptions renewing within horizonDays of now.
// One day-offset is computed per record and drives both the inclusion
// filter and the bucket assignment. Deriving the two from separate date
// computations is how a timeline ends up visibly empty on a DST boundary
// despite qualifying input, so there is deliberately a single source of
// truth here.
//
// Boundaries are inclusive: day 7 is still this week, day 14 still next
// week, day horizonDays still this month, day horizonDays+1 is out.
func Bucketize(subs []*model.Subscription, horizonDays int, now time.Time) Timeline {
	var tl Timeline
	for _, s := range subs {
		off := civil.DaysUntil(s.RenewalDate, now)
		if off < upcomingMinOffset || off > horizonDays {
			continue
		}
		switch {
		case off <= 7:
			tl.ThisWeek = append(tl.ThisWeek, s)
		case off <= 14:
			tl.NextWeek = append(tl.NextWeek, s)
		default:
			tl.ThisMonth = append(tl.ThisMonth, s)
		}
	}
	return tl
}

// UpcomingWithin returns the subscriptions renewing within the next n
// days, today included, keeping input order.
func UpcomingWithin(subs []*model.Subscription, n int, now time.Time) []*model.Subscription {
	var out []*model.Subscription
	for _, s := range subs {
		off := civil.DaysUntil(s.RenewalDate, now)
		if off >= upcomingMinOffset && off <= n {
			out = append(out, s)
		}
	}
	return out
}

// NextRenewal finds the earliest upcoming renewal date, today included.
// The second result is false when no renewal lies in the future.
func NextRenewal(subs []*model.Subscription, now time.Time) (civil.Date, bool) {
	var best civil.Date
	found := false
	for _, s := range subs {
		if civil.DaysUntil(s.RenewalDate, now) < upcomingMinOffset {
			continue
		}
		if !found || s.RenewalDate.Before(best) {
			best = s.RenewalDate
			found = true
		}
	}
	return best, found
}
