package summarizer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK    = "ok"
	outcomeAuth  = "auth_error"
	outcomeError = "error"
)

var (
	summariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minutes_summaries_total",
			Help: "Summarization calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	// Generation regularly takes tens of seconds for long transcripts.
	summaryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "minutes_summary_duration_seconds",
			Help:    "Time spent waiting for the summarization provider",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"provider"},
	)
)

func recordSummary(provider, outcome string, d time.Duration) {
	summariesTotal.WithLabelValues(provider, outcome).Inc()
	summaryDuration.WithLabelValues(provider).Observe(d.Seconds())
}
