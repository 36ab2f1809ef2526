package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		apiRequestsTotal,
		apiLatencyMs,
	)
}

var (
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "API requests by route and status class.",
		},
		[]string{"route", "status"},
	)

	apiLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_latency_ms",
			Help:    "API handler latency distribution in milliseconds.",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 200, 400, 800},
		},
		[]string{"route"},
	)
)

func ObserveAPIRequest(route, status string, elapsed time.Duration) {
	apiRequestsTotal.WithLabelValues(route, status).Inc()
	apiLatencyMs.WithLabelValues(route).Observe(float64(elapsed.Milliseconds()))
}
