// Package metrics holds the prometheus collectors of the processing pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"obsprocess/internal/provider"
)

type Metrics struct {
	observationsProcessed *prometheus.CounterVec
	batchFailures         *prometheus.CounterVec
	providerDuration      *prometheus.HistogramVec
	activeInstance        prometheus.Gauge
	lastRunSuccess        prometheus.Gauge
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which is what tests use.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		observationsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "obsprocess",
			Name:      "observations_processed_total",
			Help:      "Processed observations committed to the destination.",
		}, []string{"provider"}),
		batchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "obsprocess",
			Name:      "batch_failures_total",
			Help:      "Batches whose fetch, transform or commit failed.",
		}, []string{"provider"}),
		providerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "obsprocess",
			Name:      "provider_duration_seconds",
			Help:      "Wall time of one provider processing run.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"provider", "status"}),
		activeInstance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "obsprocess",
			Name:      "active_instance",
			Help:      "Instance slot currently served to readers.",
		}),
		lastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "obsprocess",
			Name:      "last_run_success",
			Help:      "1 if the last processing run succeeded, 0 otherwise.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.observationsProcessed, m.batchFailures, m.providerDuration, m.activeInstance, m.lastRunSuccess)
	}
	return m
}

func (m *Metrics) ObservationsProcessed(p provider.DataProvider, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.observationsProcessed.WithLabelValues(p.String()).Add(float64(n))
}

func (m *Metrics) BatchFailed(p provider.DataProvider) {
	if m == nil {
		return
	}
	m.batchFailures.WithLabelValues(p.String()).Inc()
}

func (m *Metrics) ProviderFinished(p provider.DataProvider, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.providerDuration.WithLabelValues(p.String(), status).Observe(d.Seconds())
}

func (m *Metrics) ActiveInstance(instance byte) {
	if m == nil {
		return
	}
	m.activeInstance.Set(float64(instance))
}

func (m *Metrics) RunFinished(success bool) {
	if m == nil {
		return
	}
	if success {
		m.lastRunSuccess.Set(1)
		return
	}
	m.lastRunSuccess.Set(0)
}
