package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the assistant's Prometheus collectors.
type Metrics struct {
	TurnsTotal          *prometheus.CounterVec
	TurnDuration        prometheus.Histogram
	ToolCallsTotal      *prometheus.CounterVec
	ModelCallsTotal     prometheus.Counter
	GateRejectionsTotal prometheus.Counter
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// production; tests use a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TurnsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ragent_turns_total",
			Help: "Completed conversation turns by final status.",
		}, []string{"status"}),
		TurnDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ragent_turn_duration_seconds",
			Help:    "Wall time per conversation turn.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
		ToolCallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ragent_tool_calls_total",
			Help: "Tool invocations by tool name.",
		}, []string{"tool"}),
		ModelCallsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "ragent_model_calls_total",
			Help: "Reasoning-step model calls.",
		}),
		GateRejectionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "ragent_gate_rejections_total",
			Help: "Draft answers rejected by the helpfulness gate.",
		}),
	}
}
