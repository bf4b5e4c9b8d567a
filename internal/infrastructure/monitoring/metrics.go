package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics manages the Prometheus metrics. A nil *Metrics is valid and records
// nothing, which keeps test wiring free of the global registry.
type Metrics struct {
	IngestRequests   *prometheus.CounterVec
	IngestLatency    *prometheus.HistogramVec
	AlertsRaised     *prometheus.CounterVec
	AlertsAcked      prometheus.Counter
	ConfigUpdates    *prometheus.CounterVec
	ViewComputations *prometheus.CounterVec
}

// NewMetrics creates and registers the Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		IngestRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskwatch_ingest_requests_total",
				Help: "Total number of assessment ingestion requests.",
			},
			[]string{"result"},
		),
		IngestLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "riskwatch_ingest_latency_seconds",
				Help:    "Latency of assessment ingestion.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		),
		AlertsRaised: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskwatch_alerts_raised_total",
				Help: "Total number of alerts raised, by transition type.",
			},
			[]string{"type"},
		),
		AlertsAcked: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "riskwatch_alerts_acknowledged_total",
				Help: "Total number of alert acknowledgements.",
			},
		),
		ConfigUpdates: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskwatch_config_updates_total",
				Help: "Total number of configuration store writes.",
			},
			[]string{"key"},
		),
		ViewComputations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskwatch_view_requests_total",
				Help: "Total number of portfolio view requests.",
			},
			[]string{"view"},
		),
	}
}

// RecordIngest records one ingestion request.
func (m *Metrics) RecordIngest(result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.IngestRequests.WithLabelValues(result).Inc()
	m.IngestLatency.WithLabelValues(result).Observe(duration.Seconds())
}

// RecordAlert records one raised alert.
func (m *Metrics) RecordAlert(alertType string) {
	if m == nil {
		return
	}
	m.AlertsRaised.WithLabelValues(alertType).Inc()
}

// RecordAck records one alert acknowledgement.
func (m *Metrics) RecordAck() {
	if m == nil {
		return
	}
	m.AlertsAcked.Inc()
}

// RecordConfigUpdate records one configuration write.
func (m *Metrics) RecordConfigUpdate(key string) {
	if m == nil {
		return
	}
	m.ConfigUpdates.WithLabelValues(key).Inc()
}

// RecordView records one portfolio view request.
func (m *Metrics) RecordView(view string) {
	if m == nil {
		return
	}
	m.ViewComputations.WithLabelValues(view).Inc()
}
