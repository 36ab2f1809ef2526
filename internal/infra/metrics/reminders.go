package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		remindersSentTotal,
		reminderSweepFailures,
	)
}

var (
	remindersSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reminders_sent_total",
			Help: "Total number of renewal reminders delivered.",
		},
	)

	reminderSweepFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reminder_sweep_failures_total",
			Help: "Number of reminder sweeps that ended in an error.",
		},
	)
)

func IncRemindersSent(count int) {
	remindersSentTotal.Add(float64(count))
}

func IncReminderSweepFailures() {
	reminderSweepFailures.Inc()
}
