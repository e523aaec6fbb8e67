// Package obsmetrics defines the Prometheus collectors fluentlog's
// instrumented backend decorator reports against. This is operational
// observability for the demo/backend layer, not part of the core
// pipeline, which the spec explicitly keeps metrics-free.
package obsmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LogCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fluentlog_log_calls_total",
		Help: "Total log statements dispatched to a backend, by logger name and level.",
	}, []string{"logger", "level"})

	SuppressedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fluentlog_suppressed_total",
		Help: "Total log statements suppressed by a rate limiter, by logger name.",
	}, []string{"logger"})

	ParseErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fluentlog_parse_errors_total",
		Help: "Total template parse errors encountered, by logger name.",
	}, []string{"logger"})

	BackendErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fluentlog_backend_errors_total",
		Help: "Total errors returned by a backend's Log call, by backend name.",
	}, []string{"backend"})

	ScopeEntriesGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fluentlog_scope_entries",
		Help: "Current number of live entries in a per-site state map, by logger name.",
	}, []string{"logger"})

	DispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fluentlog_backend_dispatch_duration_seconds",
		Help:    "Time spent inside a backend's Log call.",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend"})
)
