package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "pr_dashboard"

// Metrics holds the server's collectors on a private registry, so several
// servers can live in one process.
type Metrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	loadFailures  prometheus.Counter
	sectionErrors *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	emptyViews    prometheus.Counter
}

// NewMetrics registers the server's collectors on a new registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		loadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "load_failures_total",
			Help:      "Dashboard builds whose data fetch failed.",
		}),
		sectionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "malformed_sections_total",
			Help:      "Data set sections that were skipped because they were malformed.",
		}, []string{"section"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "page_cache_lookups_total",
			Help:      "Rendered page cache lookups by result.",
		}, []string{"result"}),
		emptyViews: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "empty_views_total",
			Help:      "Dashboard builds with no chart to draw.",
		}),
	}
	m.registry.MustRegister(m.requests, m.loadFailures, m.sectionErrors, m.cacheLookups, m.emptyViews)
	return m
}

// Instrument counts the handler's responses under the given route label.
func (m *Metrics) Instrument(route string, h http.Handler) http.Handler {
	return promhttp.InstrumentHandlerCounter(m.requests.MustCurryWith(prometheus.Labels{"route": route}), h)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
