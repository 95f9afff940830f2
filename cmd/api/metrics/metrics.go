// Package metrics holds the Prometheus collectors of the API server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SaisandeepKv/vernon-clinic-sub000/outbox"
)

type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RateLimited     prometheus.Counter

	TurnsTotal   *prometheus.CounterVec
	TurnDuration prometheus.Histogram
	ToolCalls    *prometheus.CounterVec

	LeadsTotal   *prometheus.CounterVec
	OutboxTasks  *prometheus.CounterVec
	AnalysisRuns *prometheus.CounterVec
}

// New registers every collector on a private registry so tests can build
// as many servers as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vernon_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vernon_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method", "route"}),
		RateLimited: f.NewCounter(prometheus.CounterOpts{
			Name: "vernon_http_rate_limited_total",
			Help: "Requests rejected by the per-IP limiter.",
		}),
		TurnsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vernon_chat_turns_total",
			Help: "Assistant turns by outcome (complete, timeout, upstream_error, cancelled).",
		}, []string{"outcome"}),
		TurnDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "vernon_chat_turn_duration_seconds",
			Help:    "Wall clock time of an assistant turn.",
			Buckets: []float64{.5, 1, 2, 4, 8, 15, 30, 45, 60},
		}),
		ToolCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vernon_tool_calls_total",
			Help: "Tool invocations by tool and success.",
		}, []string{"tool", "success"}),
		LeadsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vernon_leads_total",
			Help: "Accepted leads by kind and source.",
		}, []string{"kind", "source"}),
		OutboxTasks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vernon_outbox_tasks_total",
			Help: "Side-effect task results by task, kind and result.",
		}, []string{"task", "kind", "result"}),
		AnalysisRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vernon_skin_analysis_total",
			Help: "Photo analyses by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// OutboxResult matches outbox.ResultFunc.
func (m *Metrics) OutboxResult(task string, kind outbox.Kind, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.OutboxTasks.WithLabelValues(task, string(kind), result).Inc()
}
