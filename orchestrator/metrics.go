package orchestrator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the orchestrator counters, registered per orchestrator.
type Metrics struct {
	Transitions         *prometheus.CounterVec
	Failures            *prometheus.CounterVec
	InteractiveOutcomes *prometheus.CounterVec
	EventsDropped       prometheus.Counter
	PortErrors          *prometheus.CounterVec
}

// NewMetrics registers the counters on reg. A nil reg uses a private registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "adcue_orchestrator_transitions_total",
			Help: "Total number of state transitions",
		}, []string{"from", "to"}),
		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "adcue_orchestrator_failures_total",
			Help: "Total number of ad and playback failures by kind",
		}, []string{"kind"}),
		InteractiveOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "adcue_orchestrator_interactive_outcomes_total",
			Help: "Total number of finished engagements by credit outcome",
		}, []string{"credit"}),
		EventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "adcue_orchestrator_events_dropped_total",
			Help: "Total number of events dropped for a terminated session",
		}),
		PortErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "adcue_orchestrator_port_errors_total",
			Help: "Total number of failed port commands by operation",
		}, []string{"op"}),
	}
}
