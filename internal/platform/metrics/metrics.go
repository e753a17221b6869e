package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters for the manifest normalizer.
type Metrics struct {
	registry                 *prometheus.Registry
	requestsTotal            prometheus.Counter
	manifestsNormalizedTotal prometheus.Counter
	normalizeWarningsTotal   prometheus.Counter
	parseRejectsTotal        prometheus.Counter
	playlistsResolvedTotal   prometheus.Counter
	errorsTotal              prometheus.Counter
}

// New creates and registers Prometheus metrics for the normalizer.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "manifest_requests_total",
		Help: "Total number of HTTP requests received",
	})
	manifestsNormalizedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "manifest_normalized_total",
		Help: "Total number of manifests successfully normalized",
	})
	normalizeWarningsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "manifest_normalize_warnings_total",
		Help: "Total number of warnings emitted while normalizing manifests",
	})
	parseRejectsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "manifest_parse_rejects_total",
		Help: "Total number of sources rejected as not being m3u8 manifests",
	})
	playlistsResolvedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "manifest_playlists_resolved_total",
		Help: "Total number of playlists registered into resolved graphs",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "manifest_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})

	registry.MustRegister(
		requestsTotal,
		manifestsNormalizedTotal,
		normalizeWarningsTotal,
		parseRejectsTotal,
		playlistsResolvedTotal,
		errorsTotal,
	)

	return &Metrics{
		registry:                 registry,
		requestsTotal:            requestsTotal,
		manifestsNormalizedTotal: manifestsNormalizedTotal,
		normalizeWarningsTotal:   normalizeWarningsTotal,
		parseRejectsTotal:        parseRejectsTotal,
		playlistsResolvedTotal:   playlistsResolvedTotal,
		errorsTotal:              errorsTotal,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncManifestsNormalized increments the normalized manifests counter.
func (m *Metrics) IncManifestsNormalized() {
	m.manifestsNormalizedTotal.Inc()
}

// IncNormalizeWarnings increments the normalization warnings counter.
func (m *Metrics) IncNormalizeWarnings() {
	m.normalizeWarningsTotal.Inc()
}

// IncParseRejects increments the parse rejects counter.
func (m *Metrics) IncParseRejects() {
	m.parseRejectsTotal.Inc()
}

// AddPlaylistsResolved adds the number of playlists a resolved graph
// registered.
func (m *Metrics) AddPlaylistsResolved(n int) {
	m.playlistsResolvedTotal.Add(float64(n))
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
