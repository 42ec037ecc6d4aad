// Package metrics exposes the Prometheus instruments shared across the
// webhook pipeline and the services behind it.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebhookEvents counts inbound channel events by type.
	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tsukimi",
		Subsystem: "webhook",
		Name:      "events_total",
		Help:      "Inbound webhook events by event type.",
	}, []string{"type"})

	// Commands counts dispatched conversational commands by name.
	Commands = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tsukimi",
		Subsystem: "conversation",
		Name:      "commands_total",
		Help:      "Dispatched conversational commands by command name.",
	}, []string{"command"})

	// ParseFailures counts date phrases the parser rejected.
	ParseFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tsukimi",
		Subsystem: "conversation",
		Name:      "date_parse_failures_total",
		Help:      "Date phrases the natural-language parser could not interpret.",
	})

	// RecordsSaved counts persisted period records by input method.
	RecordsSaved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tsukimi",
		Subsystem: "records",
		Name:      "saved_total",
		Help:      "Period records saved, by input method.",
	}, []string{"input_method"})

	// PartnerPushes counts outbound partner pushes by outcome.
	PartnerPushes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tsukimi",
		Subsystem: "notifications",
		Name:      "partner_pushes_total",
		Help:      "Partner push notifications by outcome.",
	}, []string{"outcome"})
)
