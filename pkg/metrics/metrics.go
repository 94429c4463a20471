// Package metrics defines the prometheus collectors exported by the
// enrichment pipeline. Every recording method is a no-op on a nil receiver,
// so components may run without metrics in tests and CLI one-shots.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30} //nolint: gochecknoglobals

// Outcome labels.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)

// Enrichment holds the collectors of the enrichment pipeline.
type Enrichment struct {
	phaseDuration *prometheus.HistogramVec
	providerCalls *prometheus.CounterVec
	enrichments   *prometheus.CounterVec
	scores        prometheus.Histogram
}

// NewEnrichment creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewEnrichment(reg prometheus.Registerer) (*Enrichment, error) {
	m := &Enrichment{
		phaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "domainintel",
			Name:      "enrichment_phase_duration_seconds",
			Help:      "Duration of each enrichment phase.",
			Buckets:   DefaultBuckets,
		}, []string{"phase", "outcome"}),
		providerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "domainintel",
			Name:      "provider_calls_total",
			Help:      "Calls made to external contact providers.",
		}, []string{"provider", "operation", "outcome"}),
		enrichments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "domainintel",
			Name:      "enrichments_total",
			Help:      "Completed enrichments by number of failed sub-operations.",
		}, []string{"failures"}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "domainintel",
			Name:      "score_total",
			Help:      "Distribution of total quality scores.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
	}
	if reg == nil {
		return m, nil
	}

	for _, c := range []prometheus.Collector{m.phaseDuration, m.providerCalls, m.enrichments, m.scores} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// ObservePhase records how long a phase took and how it ended.
func (m *Enrichment) ObservePhase(phase, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.phaseDuration.WithLabelValues(phase, outcome).Observe(d.Seconds())
}

// ProviderCall counts one call to an external contact provider.
func (m *Enrichment) ProviderCall(provider, operation, outcome string) {
	if m == nil {
		return
	}
	m.providerCalls.WithLabelValues(provider, operation, outcome).Inc()
}

// Enriched counts a finished enrichment and records its score.
func (m *Enrichment) Enriched(failures int, total *int) {
	if m == nil {
		return
	}
	label := "0"
	switch {
	case failures >= 3:
		label = "3+"
	case failures > 0:
		label = string(rune('0' + failures))
	}
	m.enrichments.WithLabelValues(label).Inc()
	if total != nil {
		m.scores.Observe(float64(*total))
	}
}
