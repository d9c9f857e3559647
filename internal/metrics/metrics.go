// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Refresh results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var RefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "vulnwatch_catalog_refresh_total",
	Help: "Number of catalog refreshes by result",
}, []string{"result"})

var RefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "vulnwatch_catalog_refresh_duration_seconds",
	Help:    "Duration of catalog refreshes in seconds",
	Buckets: prometheus.DefBuckets,
})

var AdvisoriesLoaded = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "vulnwatch_advisories_loaded",
	Help: "Number of advisories in the resident snapshot",
})

var RecordsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "vulnwatch_records_rejected_total",
	Help: "Advisory records dropped during normalization by reason",
}, []string{"reason"})

var QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "vulnwatch_query_duration_seconds",
	Help:    "Duration of filter, sort and aggregate requests in seconds",
	Buckets: prometheus.DefBuckets,
}, []string{"operation"})

// ObserveQuery starts a timer for operation; call the returned func when done.
func ObserveQuery(operation string) func() {
	start := time.Now()
	return func() {
		QueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
