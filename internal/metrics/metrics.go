// Package metrics exposes Prometheus collectors for the reader.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	Namespace          = "cryptoscholar"
	SubsystemHTTP      = "http"
	SubsystemAPI       = "api"
	SubsystemHighlight = "highlight"
	SubsystemContent   = "content"
)

// Metrics holds the reader's collectors in a dedicated registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	apiTime *prometheus.HistogramVec

	httpRequestsTotal prometheus.Counter
	httpErrorsTotal   prometheus.Counter

	highlightOutcomes *prometheus.CounterVec
	cacheLookups      *prometheus.CounterVec
	invalidations     prometheus.Counter
}

// New creates Metrics with process and Go runtime collectors registered.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	m.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: Namespace}))
	m.registry.MustRegister(collectors.NewGoCollector())

	m.apiTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: SubsystemAPI,
			Name:      "time_seconds",
			Help:      "Time to execute the api handler",
		},
		[]string{"route", "method", "status_code"},
	)
	m.registry.MustRegister(m.apiTime)

	m.httpRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: SubsystemHTTP,
		Name:      "requests_total",
		Help:      "The total number of http requests.",
	})
	m.registry.MustRegister(m.httpRequestsTotal)

	m.httpErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: SubsystemHTTP,
		Name:      "errors_total",
		Help:      "The total number of http requests answered with a 5xx status.",
	})
	m.registry.MustRegister(m.httpErrorsTotal)

	m.highlightOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: SubsystemHighlight,
		Name:      "anchors_total",
		Help:      "Stored anchors processed while annotating articles, by outcome.",
	}, []string{"outcome"})
	m.registry.MustRegister(m.highlightOutcomes)

	m.cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: SubsystemContent,
		Name:      "render_cache_lookups_total",
		Help:      "Rendered article cache lookups, by result.",
	}, []string{"result"})
	m.registry.MustRegister(m.cacheLookups)

	m.invalidations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: SubsystemContent,
		Name:      "invalidations_total",
		Help:      "Rendered articles dropped because their source changed.",
	})
	m.registry.MustRegister(m.invalidations)

	return m
}

// Registry returns the registry holding all collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAPIEndpointDuration(route, method, statusCode string, elapsed float64) {
	if m == nil {
		return
	}
	m.apiTime.WithLabelValues(route, method, statusCode).Observe(elapsed)
}

func (m *Metrics) IncrementHTTPRequests() {
	if m == nil {
		return
	}
	m.httpRequestsTotal.Inc()
}

func (m *Metrics) IncrementHTTPErrors() {
	if m == nil {
		return
	}
	m.httpErrorsTotal.Inc()
}

// ObserveHighlightOutcome adds n anchors with the given outcome.
func (m *Metrics) ObserveHighlightOutcome(outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.highlightOutcomes.WithLabelValues(outcome).Add(float64(n))
}

func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementContentInvalidations() {
	if m == nil {
		return
	}
	m.invalidations.Inc()
}
