package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// raw-to-processed transformation worker.
type Metrics struct {
	ObjectsProcessed   prometheus.Counter
	ObjectsFailed      prometheus.Counter
	ObjectsIgnored     prometheus.Counter
	RecordsTransformed prometheus.Counter
	RecordsSkipped     prometheus.Counter
	ProcessingDuration prometheus.Histogram
	ConsumerRunning    prometheus.Gauge
}

// NewMetrics creates and registers all worker metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ObjectsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clickstream",
			Name:      "objects_processed_total",
			Help:      "Total raw objects transformed and written to the processed zone.",
		}),
		ObjectsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clickstream",
			Name:      "objects_failed_total",
			Help:      "Total invocations that failed and were left for redelivery.",
		}),
		ObjectsIgnored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clickstream",
			Name:      "objects_ignored_total",
			Help:      "Total notifications for keys outside the raw-zone contract.",
		}),
		RecordsTransformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clickstream",
			Name:      "records_transformed_total",
			Help:      "Total event records successfully transformed.",
		}),
		RecordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clickstream",
			Name:      "records_skipped_total",
			Help:      "Total malformed event records dropped.",
		}),
		ProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clickstream",
			Name:      "processing_duration_seconds",
			Help:      "Duration of a single read-transform-write invocation.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		}),
		ConsumerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "clickstream",
			Name:      "consumer_running",
			Help:      "1 when the notification consumer is active, 0 when shut down.",
		}),
	}

	prometheus.MustRegister(
		m.ObjectsProcessed,
		m.ObjectsFailed,
		m.ObjectsIgnored,
		m.RecordsTransformed,
		m.RecordsSkipped,
		m.ProcessingDuration,
		m.ConsumerRunning,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ObjectsProcessed:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "clickstream", Name: "objects_processed_total"}),
		ObjectsFailed:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "clickstream", Name: "objects_failed_total"}),
		ObjectsIgnored:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "clickstream", Name: "objects_ignored_total"}),
		RecordsTransformed: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "clickstream", Name: "records_transformed_total"}),
		RecordsSkipped:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "clickstream", Name: "records_skipped_total"}),
		ProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "clickstream", Name: "processing_duration_seconds"}),
		ConsumerRunning:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "clickstream", Name: "consumer_running"}),
	}
}
