// Package metrics holds the Prometheus collectors for the calculator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeEligible   = "eligible"
	OutcomeIneligible = "ineligible"
	OutcomeInvalid    = "invalid"
	OutcomeError      = "error"

	CacheHit  = "hit"
	CacheMiss = "miss"

	LoadOK       = "ok"
	LoadCached   = "cached"
	LoadMissing  = "missing"
	LoadFailed   = "failed"
	LoadFallback = "fallback"
)

var (
	CalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mortgage_calculations_total",
			Help: "Total number of mortgage calculations by loan type and outcome",
		},
		[]string{"loan_type", "outcome"},
	)

	CalculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mortgage_calculation_duration_seconds",
			Help:    "Duration of uncached mortgage calculations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"loan_type"},
	)

	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mortgage_cache_requests_total",
			Help: "Result cache lookups by result",
		},
		[]string{"result"},
	)

	DataLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mortgage_data_loads_total",
			Help: "Dataset loads by dataset and result",
		},
		[]string{"dataset", "result"},
	)

	SolverIterations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mortgage_solver_iterations",
			Help:    "Iterations used by the affordability solver",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		},
	)
)
