package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder reports runtime metrics using Prometheus primitives.
type PrometheusRecorder struct {
	queries        *prometheus.CounterVec
	queryDurations prometheus.Histogram
	agents         *prometheus.CounterVec
	agentDurations *prometheus.HistogramVec
	toolCalls      *prometheus.CounterVec
}

// NewPrometheusRecorder registers the collectors on registry.
func NewPrometheusRecorder(registry *prometheus.Registry) (*PrometheusRecorder, error) {
	if registry == nil {
		return nil, fmt.Errorf("prometheus registry is nil")
	}

	r := &PrometheusRecorder{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "codeassist_queries_total",
			Help: "Total number of answered queries by status",
		}, []string{"status"}),
		queryDurations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "codeassist_query_duration_seconds",
			Help:    "End-to-end query latency in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}),
		agents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "codeassist_agent_invocations_total",
			Help: "Total number of agent invocations by status",
		}, []string{"agent", "status"}),
		agentDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "codeassist_agent_duration_seconds",
			Help:    "Agent invocation latency in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"agent"}),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "codeassist_tool_calls_total",
			Help: "Total number of tool calls by agent, tool and status",
		}, []string{"agent", "tool", "status"}),
	}

	for _, collector := range []prometheus.Collector{r.queries, r.queryDurations, r.agents, r.agentDurations, r.toolCalls} {
		if err := registry.Register(collector); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return r, nil
}

func (r *PrometheusRecorder) ObserveQuery(status string, duration time.Duration) {
	r.queries.WithLabelValues(status).Inc()
	r.queryDurations.Observe(duration.Seconds())
}

func (r *PrometheusRecorder) ObserveAgent(agent string, status string, duration time.Duration) {
	r.agents.WithLabelValues(agent, status).Inc()
	r.agentDurations.WithLabelValues(agent).Observe(duration.Seconds())
}

func (r *PrometheusRecorder) ObserveToolCall(agent string, tool string, status string, _ time.Duration) {
	r.toolCalls.WithLabelValues(agent, tool, status).Inc()
}
