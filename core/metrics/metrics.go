// Package metrics provides Prometheus collectors for supplier fetches and reconciliation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcomes.
const (
	OutcomeOK            = "ok"
	OutcomeEmpty         = "empty"
	OutcomeNotConfigured = "not_configured"
	OutcomeError         = "error"
)

// Reconciliation outcomes.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
	OutcomeCached   = "cached"
)

var (
	// SupplierFetchesTotal counts supplier fetches by outcome.
	SupplierFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parts_supplier_fetches_total",
			Help: "Total number of supplier listing fetches",
		},
		[]string{"supplier", "outcome"},
	)

	// SupplierFetchDuration observes the latency of each supplier fetch.
	SupplierFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parts_supplier_fetch_duration_seconds",
			Help:    "Time taken by supplier listing fetches",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"supplier"},
	)

	// SupplierListings counts the listings suppliers returned.
	SupplierListings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parts_supplier_listings_total",
			Help: "Total number of listings returned by suppliers",
		},
		[]string{"supplier"},
	)

	// ReconciliationsTotal counts reconciliation requests by operation and outcome.
	ReconciliationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parts_reconciliations_total",
			Help: "Total number of reconciliation requests",
		},
		[]string{"operation", "outcome"},
	)

	// ClassifiedPartTypes counts classified records by whether a part type was assigned.
	ClassifiedPartTypes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parts_classified_total",
			Help: "Total number of records classified, by whether a part type was assigned",
		},
		[]string{"assigned"},
	)
)
