// Package metrics holds the pipeline's own counters. Request-level HTTP
// metrics come from the echoprometheus middleware; everything here tracks
// pipeline behaviour that the middleware cannot see.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialsphere_webhook_events_total",
		Help: "Inbound webhook events by kind.",
	}, []string{"kind"})

	MalformedPayloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "socialsphere_webhook_malformed_total",
		Help: "Webhook payloads that could not be parsed.",
	})

	DuplicateDeliveries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "socialsphere_duplicate_deliveries_total",
		Help: "Redelivered messages discarded by the idempotency check.",
	})

	DiscardedDecisions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "socialsphere_discarded_decisions_total",
		Help: "Duplicate or late approval decisions discarded as no-ops.",
	})

	GeneratorFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "socialsphere_generator_fallbacks_total",
		Help: "Content generations served by the offline fallback.",
	})

	Publishes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialsphere_publishes_total",
		Help: "Publish attempts by outcome.",
	}, []string{"outcome"})
)
