package metrics

import (
	"subscription-tracker/internal/domain/model"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		subscriptionsTotal,
		subscriptionsMonthlySpend,
	)
}

var (
	subscriptionsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "subscriptions_total",
			Help: "Current number of tracked subscriptions by billing cycle.",
		},
		[]string{"cycle"}, // 'monthly', 'yearly'
	)

	subscriptionsMonthlySpend = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "subscriptions_monthly_spend",
			Help: "Total monthly-normalized spend across tracked subscriptions.",
		},
	)
)

func SetSubscriptionsTotal(monthly, yearly int) {
	subscriptionsTotal.WithLabelValues(string(model.BillingCycleMonthly)).Set(float64(monthly))
	subscriptionsTotal.WithLabelValues(string(model.BillingCycleYearly)).Set(float64(yearly))
}

func SetMonthlySpend(v float64) {
	subscriptionsMonthlySpend.Set(v)
}
