// Package metrics defines Prometheus metrics for the search service.
//
// Metric naming follows Prometheus conventions:
//   - unifi_search_ prefix for all custom metrics
//   - _total suffix for counters
//   - _seconds suffix for duration histograms
//
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors recorded by the worker and orchestrator.
type Metrics struct {
	// SearchesTotal counts finished searches by outcome.
	SearchesTotal *prometheus.CounterVec
	// SearchDurationSeconds is a histogram of end-to-end search duration.
	SearchDurationSeconds prometheus.Histogram
	// SitesScannedTotal counts sites whose device list was fetched.
	SitesScannedTotal prometheus.Counter
	// DevicesComparedTotal counts device records compared against a target.
	DevicesComparedTotal prometheus.Counter
	// ControllerErrorsTotal counts failed searches by controller error kind.
	ControllerErrorsTotal *prometheus.CounterVec
	// NotificationsTotal counts notifier deliveries by notifier and result.
	NotificationsTotal *prometheus.CounterVec
	// SearchInProgress is 1 while the worker runs a search.
	SearchInProgress prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unifi_search_searches_total",
				Help: "Total number of searches by outcome.",
			},
			[]string{"outcome"},
		),
		SearchDurationSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "unifi_search_duration_seconds",
				Help:    "Duration of searches in seconds.",
				Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 15, 30, 60, 120, 300},
			},
		),
		SitesScannedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "unifi_search_sites_scanned_total",
				Help: "Total number of sites whose device inventory was fetched.",
			},
		),
		DevicesComparedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "unifi_search_devices_compared_total",
				Help: "Total number of device records compared against a target MAC.",
			},
		),
		ControllerErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unifi_search_controller_errors_total",
				Help: "Total failed searches by error kind.",
			},
			[]string{"kind"},
		),
		NotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unifi_search_notifications_total",
				Help: "Total completion notifications by notifier and result.",
			},
			[]string{"notifier", "result"},
		),
		SearchInProgress: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "unifi_search_in_progress",
				Help: "1 while a search is running.",
			},
		),
	}

	reg.MustRegister(
		m.SearchesTotal,
		m.SearchDurationSeconds,
		m.SitesScannedTotal,
		m.DevicesComparedTotal,
		m.ControllerErrorsTotal,
		m.NotificationsTotal,
		m.SearchInProgress,
	)

	return m
}

// RecordSearchStarted marks a search as running.
func (m *Metrics) RecordSearchStarted() {
	if m == nil {
		return
	}

	m.SearchInProgress.Set(1)
}

// RecordSearchComplete records a finished search. errorKind is empty unless
// the search failed.
func (m *Metrics) RecordSearchComplete(outcome, errorKind string, duration time.Duration) {
	if m == nil {
		return
	}

	m.SearchInProgress.Set(0)
	m.SearchesTotal.WithLabelValues(outcome).Inc()
	m.SearchDurationSeconds.Observe(duration.Seconds())

	if errorKind != "" {
		m.ControllerErrorsTotal.WithLabelValues(errorKind).Inc()
	}
}

// RecordSiteScanned records one fetched site and the devices compared in it.
func (m *Metrics) RecordSiteScanned(devices int) {
	if m == nil {
		return
	}

	m.SitesScannedTotal.Inc()
	m.DevicesComparedTotal.Add(float64(devices))
}

// RecordNotification records a notifier delivery attempt.
func (m *Metrics) RecordNotification(notifier string, err error) {
	if m == nil {
		return
	}

	result := "success"
	if err != nil {
		result = "error"
	}

	m.NotificationsTotal.WithLabelValues(notifier, result).Inc()
}
