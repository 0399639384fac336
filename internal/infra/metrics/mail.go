package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(mailTotal) }

// Confirmation mail attempts by delivery status (sent|error).
var mailTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "payment_mail_total",
		Help: "Payment confirmation emails by delivery status.",
	},
	[]string{"status"},
)

func IncMail(status string) { mailTotal.WithLabelValues(norm(status)).Inc() }
