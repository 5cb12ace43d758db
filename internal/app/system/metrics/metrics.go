// Package metrics exposes Prometheus counters for the donation lifecycle.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DonationsCreated counts successfully created donations.
	DonationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodbridge_donations_created_total",
		Help: "Number of donations created.",
	})

	// Transitions counts successful lifecycle transitions by target status.
	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodbridge_donation_transitions_total",
		Help: "Number of donation status transitions, labeled by target status.",
	}, []string{"to"})

	// TransitionConflicts counts transitions refused because the donation
	// was not in a legal source state (stale reads, double submits).
	TransitionConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodbridge_donation_transition_conflicts_total",
		Help: "Number of transitions rejected as illegal from the current status.",
	})

	// NearbyQueries counts proximity searches.
	NearbyQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodbridge_nearby_queries_total",
		Help: "Number of nearby-donation queries served.",
	})

	// RequestsClosed counts requests fully satisfied by the ledger.
	RequestsClosed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodbridge_requests_closed_total",
		Help: "Number of requests deactivated after reaching zero quantity.",
	})
)
