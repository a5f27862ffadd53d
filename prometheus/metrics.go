// Package prometheus instruments the pipeline with Prometheus metrics.
// Metrics live in a private registry and can be exported to a node-exporter
// textfile at the end of a run.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch kinds used as the "kind" label.
const (
	KindList   = "list"
	KindDetail = "detail"
)

const namespace = "olxscrape"

// Metrics holds the collectors for one scraping run.
type Metrics struct {
	registry *prometheus.Registry

	fetchTotal    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	fetchBytes    *prometheus.CounterVec

	pagesTotal     *prometheus.CounterVec
	listingsFound  prometheus.Counter
	listingsValid  prometheus.Counter
	detailsTotal   *prometheus.CounterVec
	stopsRequested prometheus.Counter
}

// NewMetrics creates the collectors and registers them in a new registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		fetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_requests_total",
				Help:      "Total number of page fetches",
			},
			[]string{"kind", "outcome"},
		),

		fetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Duration of page fetches in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
			},
			[]string{"kind"},
		),

		fetchBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_bytes_total",
				Help:      "Total bytes of decoded HTML fetched",
			},
			[]string{"kind"},
		),

		pagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pages_total",
				Help:      "Total number of result pages processed",
			},
			[]string{"outcome"},
		),

		listingsFound: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "listings_found_total",
				Help:      "Total number of result cards extracted",
			},
		),

		listingsValid: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "listings_valid_total",
				Help:      "Total number of result cards kept after validation",
			},
		),

		detailsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "details_total",
				Help:      "Total number of detail enrichments",
			},
			[]string{"outcome"},
		),

		stopsRequested: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stops_requested_total",
				Help:      "Number of times the pipeline was asked to stop",
			},
		),
	}
}

// Registry returns the registry holding the run's collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current metric values to path in the text
// exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
