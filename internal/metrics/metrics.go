package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	TransitionEnter            = "enter"
	TransitionClose            = "close"
	TransitionCancel           = "cancel"
	TransitionCapabilityDenied = "capability_denied"
)

// Metrics methods are safe to call on a nil receiver.
type Metrics struct {
	Registry *prometheus.Registry

	Transitions   *prometheus.CounterVec
	Saves         *prometheus.CounterVec
	FeaturesSaved *prometheus.CounterVec
	SaveDuration  *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "layeredit_transitions_total",
			Help: "Edit lifecycle transitions by kind",
		}, []string{"transition"}),
		Saves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "layeredit_saves_total",
			Help: "Save attempts by backend kind and outcome",
		}, []string{"backend", "outcome"}),
		FeaturesSaved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "layeredit_features_saved_total",
			Help: "Pending changes persisted by backend kind",
		}, []string{"backend"}),
		SaveDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "layeredit_save_duration_seconds",
			Help:    "Time spent saving a layer, reload included",
			Buckets: prometheus.DefBuckets,
		}, []string{"backend"}),
	}
}

func (m *Metrics) RecordTransition(transition string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(transition).Inc()
}

func (m *Metrics) RecordSave(backend, outcome string, saved int, took time.Duration) {
	if m == nil {
		return
	}
	m.Saves.WithLabelValues(backend, outcome).Inc()
	m.FeaturesSaved.WithLabelValues(backend).Add(float64(saved))
	m.SaveDuration.WithLabelValues(backend).Observe(took.Seconds())
}

// WriteToTextfile dumps the registry in the text exposition format.
func (m *Metrics) WriteToTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
