package mailer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK    = "ok"
	outcomeAuth  = "auth_error"
	outcomeError = "error"
)

var emailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "minutes_emails_total",
		Help: "Email delivery attempts by outcome",
	},
	[]string{"outcome"},
)

func recordEmail(outcome string) {
	emailsTotal.WithLabelValues(outcome).Inc()
}
