// Package metrics exposes oracle and use-case telemetry to Prometheus.
package metrics

import (
	"context"
	"net/http"
	"strings"

	"github.com/alexanderramin/apo/internal/domain"
	"github.com/alexanderramin/apo/internal/llm"
	"github.com/alexanderramin/apo/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "apo"

// Recorder implements llm.Observer and service.UseCaseObserver on a private
// registry.
type Recorder struct {
	reg *prometheus.Registry

	oracleCalls   *prometheus.CounterVec
	oracleLatency *prometheus.HistogramVec
	useCases      *prometheus.CounterVec
	useCaseTime   *prometheus.HistogramVec
}

// New creates a Recorder with Go runtime and process collectors registered.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		oracleCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_calls_total",
			Help:      "Oracle calls by task and outcome.",
		}, []string{"task", "status"}),
		oracleLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "oracle_call_duration_seconds",
			Help:      "Oracle call latency including retries.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"task"}),
		useCases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "use_cases_total",
			Help:      "Use case executions by name and error kind.",
		}, []string{"use_case", "kind"}),
		useCaseTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "use_case_duration_seconds",
			Help:      "Use case latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"use_case"}),
	}
	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.oracleCalls, r.oracleLatency, r.useCases, r.useCaseTime,
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry returns the underlying registry for tests and extra collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

func (r *Recorder) OnCallComplete(event llm.LLMCallEvent) {
	status := "ok"
	if !event.Success {
		status = strings.ToLower(event.ErrorCode)
	}
	r.oracleCalls.WithLabelValues(string(event.Task), status).Inc()
	r.oracleLatency.WithLabelValues(string(event.Task)).Observe(float64(event.LatencyMs) / 1000)
}

func (r *Recorder) ObserveUseCase(_ context.Context, event service.UseCaseEvent) {
	r.useCases.WithLabelValues(event.Name, KindLabel(event.Err)).Inc()
	r.useCaseTime.WithLabelValues(event.Name).Observe(event.Duration.Seconds())
}

// KindLabel is the outcome label for a use case error.
func KindLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return domain.KindCode(err)
}

var (
	_ llm.Observer            = (*Recorder)(nil)
	_ service.UseCaseObserver = (*Recorder)(nil)
)
