package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuotesSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spacehub_quotes_submitted_total",
		Help: "Quotes submitted by hosts.",
	})
	PaymentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spacehub_payments_created_total",
		Help: "Payments created from quotes.",
	})
	PaymentsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spacehub_payments_completed_total",
		Help: "Payments moved to completed.",
	})
	RefundsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spacehub_refunds_completed_total",
		Help: "Refunds moved to completed.",
	})
	ServiceFeeCollected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spacehub_service_fee_collected_total",
		Help: "Sum of service fees on completed payments.",
	})
)
