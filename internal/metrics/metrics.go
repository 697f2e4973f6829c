package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry          *prometheus.Registry
	sourceFailures    *prometheus.CounterVec
	aggregateDuration prometheus.Histogram
	aggregateItems    prometheus.Histogram
	readMarks         prometheus.Counter
	readStateErrors   *prometheus.CounterVec
	mutations         *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "livefeed",
			Name:      "source_failures_total",
			Help:      "Notification source queries that failed and contributed no items.",
		}, []string{"source"}),
		aggregateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "livefeed",
			Name:      "aggregate_duration_seconds",
			Help:      "Time spent building a notification list.",
			Buckets:   prometheus.DefBuckets,
		}),
		aggregateItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "livefeed",
			Name:      "aggregate_items",
			Help:      "Items returned per aggregation.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		}),
		readMarks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "livefeed",
			Name:      "read_marks_total",
			Help:      "Notification ids newly marked as read.",
		}),
		readStateErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "livefeed",
			Name:      "read_state_errors_total",
			Help:      "Read-state store failures that were degraded to defaults.",
		}, []string{"op"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "livefeed",
			Name:      "mutations_total",
			Help:      "Reaction and comment writes by outcome.",
		}, []string{"kind", "outcome"}),
	}
	m.registry.MustRegister(
		m.sourceFailures,
		m.aggregateDuration,
		m.aggregateItems,
		m.readMarks,
		m.readStateErrors,
		m.mutations,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) SourceFailed(source string) {
	m.sourceFailures.WithLabelValues(source).Inc()
}

func (m *Metrics) ObserveAggregate(seconds float64, items int) {
	m.aggregateDuration.Observe(seconds)
	m.aggregateItems.Observe(float64(items))
}

func (m *Metrics) ReadMarked(n int) {
	m.readMarks.Add(float64(n))
}

func (m *Metrics) ReadStateFailed(op string) {
	m.readStateErrors.WithLabelValues(op).Inc()
}

func (m *Metrics) Mutation(kind, outcome string) {
	m.mutations.WithLabelValues(kind, outcome).Inc()
}
