// Package metrics holds the Prometheus collectors shared by the report runner
// and the HTTP server.
package metrics

import (
	"errors"

	"github.com/iwvelando/loan-engine/pkg/loans"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "loan_engine"

// Status label values.
const (
	StatusOK      = "ok"
	StatusInvalid = "invalid_argument"
	StatusError   = "error"
)

var (
	// Calculations counts engine operations by outcome.
	Calculations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Engine calculations by operation and status.",
		},
		[]string{"operation", "status"},
	)

	// ScheduleEntries counts amortization schedule rows produced.
	ScheduleEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_entries_total",
			Help:      "Amortization schedule entries generated, by calculation method.",
		},
		[]string{"method"},
	)

	// HTTPRequests counts API requests by route and response code.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		},
		[]string{"route", "method", "code"},
	)

	// HTTPDuration observes API latency by route.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

// Status maps an engine error onto a status label.
func Status(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, loans.ErrInvalidArgument):
		return StatusInvalid
	default:
		return StatusError
	}
}

// ObserveCalculation records one engine operation.
func ObserveCalculation(operation string, err error) {
	Calculations.WithLabelValues(operation, Status(err)).Inc()
}

// ObserveSchedule records the rows of a generated schedule.
func ObserveSchedule(method loans.Method, entries int) {
	ScheduleEntries.WithLabelValues(string(method)).Add(float64(entries))
}
