package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for lookups.
type Metrics struct {
	Lookups       *prometheus.CounterVec // labels: outcome={ready,<error kind>}
	LookupLatency prometheus.Histogram
	POIsPerLookup prometheus.Histogram

	// Location stage.
	LocationOutcomes      *prometheus.CounterVec // labels: outcome={located,<location kind>}
	LocationLateCallbacks prometheus.Counter
	LocationWait          prometheus.Histogram

	// Overpass stage.
	OverpassRequests *prometheus.CounterVec // labels: outcome={success,transport,status,decode}
	OverpassDuration prometheus.Histogram

	// Result publishing.
	PublishErrors  prometheus.Counter
	PublishEnabled prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "restroom_finder",
			Name:      "lookups_total",
			Help:      "Completed lookups by outcome.",
		}, []string{"outcome"}),
		LookupLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "restroom_finder",
			Name:      "lookup_duration_seconds",
			Help:      "Duration of a full locate-and-query lookup.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		POIsPerLookup: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "restroom_finder",
			Name:      "pois_per_lookup",
			Help:      "Number of points of interest returned by a successful lookup.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		LocationOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "restroom_finder",
			Name:      "location_outcomes_total",
			Help:      "Settled position requests by outcome.",
		}, []string{"outcome"}),
		LocationLateCallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "restroom_finder",
			Name:      "location_late_callbacks_total",
			Help:      "Device callbacks ignored because the request had already settled.",
		}),
		LocationWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "restroom_finder",
			Name:      "location_wait_seconds",
			Help:      "Time spent waiting for the device to settle a position request.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		}),
		OverpassRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "restroom_finder",
			Name:      "overpass_requests_total",
			Help:      "Overpass API requests by outcome.",
		}, []string{"outcome"}),
		OverpassDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "restroom_finder",
			Name:      "overpass_request_duration_seconds",
			Help:      "Overpass API request duration in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "restroom_finder",
			Name:      "publish_errors_total",
			Help:      "Lookups that could not be published to Kafka.",
		}),
		PublishEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "restroom_finder",
			Name:      "publish_enabled",
			Help:      "1 when lookups are published to Kafka, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.Lookups,
		m.LookupLatency,
		m.POIsPerLookup,
		m.LocationOutcomes,
		m.LocationLateCallbacks,
		m.LocationWait,
		m.OverpassRequests,
		m.OverpassDuration,
		m.PublishErrors,
		m.PublishEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Lookups:               prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "restroom_finder", Name: "lookups_total"}, []string{"outcome"}),
		LookupLatency:         prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "restroom_finder", Name: "lookup_duration_seconds"}),
		POIsPerLookup:         prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "restroom_finder", Name: "pois_per_lookup"}),
		LocationOutcomes:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "restroom_finder", Name: "location_outcomes_total"}, []string{"outcome"}),
		LocationLateCallbacks: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "restroom_finder", Name: "location_late_callbacks_total"}),
		LocationWait:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "restroom_finder", Name: "location_wait_seconds"}),
		OverpassRequests:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "restroom_finder", Name: "overpass_requests_total"}, []string{"outcome"}),
		OverpassDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "restroom_finder", Name: "overpass_request_duration_seconds"}),
		PublishErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "restroom_finder", Name: "publish_errors_total"}),
		PublishEnabled:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "restroom_finder", Name: "publish_enabled"}),
	}
}
