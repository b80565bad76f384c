package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tartampluch/go-milestone/internal/config"
)

// Metrics groups the collectors exported on /metrics.
type Metrics struct {
	Computations *prometheus.CounterVec
	SyncDuration prometheus.Histogram
	SyncErrors   prometheus.Counter
	Contacts     prometheus.Gauge
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in
// tests so repeated construction does not collide on the default registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Computations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricComputations,
			Help:      config.MetricComputationsHlp,
		}, []string{config.LabelSurface, config.LabelOutcome}),
		SyncDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricSyncDuration,
			Help:      config.MetricSyncDurationHlp,
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		SyncErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricSyncErrors,
			Help:      config.MetricSyncErrorsHlp,
		}),
		Contacts: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricContacts,
			Help:      config.MetricContactsHlp,
		}),
	}
}

// ObserveComputation counts one recomputation on surface. Safe on a nil receiver.
func (m *Metrics) ObserveComputation(surface string, ok bool) {
	if m == nil {
		return
	}
	outcome := config.OutcomeInvalid
	if ok {
		outcome = config.OutcomeValid
	}
	m.Computations.WithLabelValues(surface, outcome).Inc()
}

// ObserveSync records one address book sync that started at start.
func (m *Metrics) ObserveSync(start time.Time, contacts int, err error) {
	if m == nil {
		return
	}
	m.SyncDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.SyncErrors.Inc()
		return
	}
	m.Contacts.Set(float64(contacts))
}
