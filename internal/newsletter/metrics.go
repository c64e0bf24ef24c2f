package newsletter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "zero2prod"

var (
	// IssuesDelivered counts per-recipient newsletter deliveries.
	IssuesDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "newsletter",
		Name:      "deliveries_total",
		Help:      "Number of newsletter issues delivered to individual recipients",
	})

	// RecipientsSkipped counts confirmed subscribers skipped because their
	// stored email no longer parses.
	RecipientsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "newsletter",
		Name:      "recipients_skipped_total",
		Help:      "Number of recipients skipped due to invalid stored emails",
	})

	// DispatchFailures counts per-recipient dispatch failures, each of which
	// aborts the remainder of the batch.
	DispatchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "newsletter",
		Name:      "dispatch_failures_total",
		Help:      "Number of newsletter dispatch failures",
	})
)
