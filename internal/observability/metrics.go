package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors the core updates per turn, per
// expert iteration, and per tool call.
type Metrics struct {
	TurnDuration      prometheus.Histogram
	TurnsTotal        *prometheus.CounterVec
	Iterations        prometheus.Histogram
	ToolCallDuration  *prometheus.HistogramVec
	ToolCallsTotal    *prometheus.CounterVec
	HandoffsTotal     *prometheus.CounterVec
	RouterDecisions   *prometheus.CounterVec
}

// NewMetrics registers and returns a fresh Metrics set against reg. Passing
// a dedicated registry (rather than the global default) keeps repeated
// construction in tests from panicking on duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TurnDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "assistant_turn_duration_seconds",
			Help:    "Wall-clock duration of a full turn.",
			Buckets: prometheus.DefBuckets,
		}),
		TurnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assistant_turns_total",
			Help: "Total turns processed, labeled by outcome.",
		}, []string{"outcome"}),
		Iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "assistant_expert_iterations",
			Help:    "Number of expert-loop iterations per turn.",
			Buckets: []float64{1, 2, 3, 4, 5, 7, 10, 15},
		}),
		ToolCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "assistant_tool_call_duration_seconds",
			Help:    "Duration of individual tool dispatches.",
			Buckets: prometheus.DefBuckets,
		}, []string{"tool"}),
		ToolCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assistant_tool_calls_total",
			Help: "Total tool calls, labeled by tool name and outcome.",
		}, []string{"tool", "outcome"}),
		HandoffsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assistant_handoffs_total",
			Help: "Total expert handoffs, labeled by source and target.",
		}, []string{"source", "target"}),
		RouterDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assistant_router_decisions_total",
			Help: "Routing decisions, labeled by stage (sticky/keyword/model_fallback/default).",
		}, []string{"stage"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.TurnDuration, m.TurnsTotal, m.Iterations,
			m.ToolCallDuration, m.ToolCallsTotal, m.HandoffsTotal, m.RouterDecisions,
		)
	}
	return m
}

// ObserveTurn records the duration and outcome of a completed turn.
func (m *Metrics) ObserveTurn(start time.Time, outcome string) {
	if m == nil {
		return
	}
	m.TurnDuration.Observe(time.Since(start).Seconds())
	m.TurnsTotal.WithLabelValues(outcome).Inc()
}

// ObserveToolCall records the duration and outcome of one tool dispatch.
func (m *Metrics) ObserveToolCall(tool string, start time.Time, ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.ToolCallDuration.WithLabelValues(tool).Observe(time.Since(start).Seconds())
	m.ToolCallsTotal.WithLabelValues(tool, outcome).Inc()
}
