package subscriptions

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "zero2prod"

var (
	// SubscriptionsCreated counts committed pending subscriptions.
	SubscriptionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "subscriptions",
		Name:      "created_total",
		Help:      "Number of subscriptions stored in pending_confirmation status",
	})

	// SubscriptionsConfirmed counts successful token redemptions.
	SubscriptionsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "subscriptions",
		Name:      "confirmed_total",
		Help:      "Number of subscribers marked confirmed",
	})

	// ConfirmationEmailFailures counts confirmation emails that could not be
	// dispatched after the subscription was already committed.
	ConfirmationEmailFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "subscriptions",
		Name:      "confirmation_email_failures_total",
		Help:      "Number of confirmation emails that failed to send post-commit",
	})
)
