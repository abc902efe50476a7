package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ScansTotal counts scan attempts by platform, strategy and outcome.
	ScansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wifiscout",
			Name:      "scans_total",
			Help:      "Total number of scan attempts",
		},
		[]string{"platform", "strategy", "outcome"},
	)

	// ScanDuration observes end-to-end scan latency in seconds.
	ScanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "wifiscout",
			Name:      "scan_duration_seconds",
			Help:      "End-to-end scan duration",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)

	// RecordsParsed counts network records emitted per parser.
	RecordsParsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wifiscout",
			Name:      "records_parsed_total",
			Help:      "Total number of network records emitted by parsers",
		},
		[]string{"parser"},
	)

	// SessionsPersisted counts sessions written per store backend.
	SessionsPersisted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wifiscout",
			Name:      "sessions_persisted_total",
			Help:      "Total number of scan sessions persisted",
		},
		[]string{"store"},
	)

	// PersistenceErrors counts failed session writes per store backend.
	PersistenceErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wifiscout",
			Name:      "persistence_errors_total",
			Help:      "Total number of failed session writes",
		},
		[]string{"store"},
	)

	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry.
// Idempotent; safe to call from multiple bootstrap paths.
func InitMetrics() {
	once.Do(func() {
		prometheus.DefaultRegisterer.Register(ScansTotal)
		prometheus.DefaultRegisterer.Register(ScanDuration)
		prometheus.DefaultRegisterer.Register(RecordsParsed)
		prometheus.DefaultRegisterer.Register(SessionsPersisted)
		prometheus.DefaultRegisterer.Register(PersistenceErrors)
	})
}
