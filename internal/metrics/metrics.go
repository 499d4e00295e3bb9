package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Route discovery
	RouteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swaproute_route_requests_total",
			Help: "Total number of route requests",
		},
		[]string{"status"},
	)

	RouteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "swaproute_route_duration_seconds",
		Help:    "Route discovery duration in seconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	CandidatePaths = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "swaproute_candidate_paths",
		Help:    "Number of candidate paths produced per enumeration",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 32},
	})

	DirectoryErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swaproute_directory_errors_total",
		Help: "Total number of pool lookups that failed and were treated as missing",
	})

	SimulationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swaproute_simulation_failures_total",
		Help: "Total number of path simulations dropped after a quote failure",
	})

	QuoteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "swaproute_quote_duration_seconds",
		Help:    "Single hop quote duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// Execution
	ExecutedHops = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swaproute_executed_hops_total",
			Help: "Total number of submitted hops by outcome",
		},
		[]string{"status"},
	)

	Executions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swaproute_executions_total",
			Help: "Total number of route executions by outcome",
		},
		[]string{"status"},
	)

	JournalErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swaproute_journal_errors_total",
		Help: "Total number of execution events that could not be journaled",
	})

	// HTTP
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swaproute_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swaproute_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
