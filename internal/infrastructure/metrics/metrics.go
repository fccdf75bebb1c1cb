// Package metrics exposes Prometheus counters for analyses, provider failures,
// history writes and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/doeshing/symcheck-go/internal/domain"
	"github.com/doeshing/symcheck-go/internal/ports"
)

const namespace = "symcheck"

// Recorder owns a private registry so tests and multiple servers do not collide.
type Recorder struct {
	registry         *prometheus.Registry
	analyses         *prometheus.CounterVec
	providerFailures *prometheus.CounterVec
	appendFailures   prometheus.Counter
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New registers all collectors, including the Go runtime and process collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed analyses by source and outcome status.",
		}, []string{"source", "status"}),
		providerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_failures_total",
			Help:      "Failed provider calls by provider and failure kind.",
		}, []string{"provider", "kind"}),
		appendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_append_failures_total",
			Help:      "History appends that failed after an analysis completed.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"route"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.analyses,
		r.providerFailures,
		r.appendFailures,
		r.httpRequests,
		r.httpDuration,
	)
	return r
}

func (r *Recorder) AnalysisCompleted(source domain.Source, status domain.OutcomeStatus) {
	r.analyses.WithLabelValues(string(source), status.String()).Inc()
}

func (r *Recorder) ProviderFailed(provider domain.ProviderName, kind domain.FailureKind) {
	r.providerFailures.WithLabelValues(string(provider), kind.String()).Inc()
}

func (r *Recorder) HistoryAppendFailed() {
	r.appendFailures.Inc()
}

// ObserveHTTP records one served request.
func (r *Recorder) ObserveHTTP(route, method string, code int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	r.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

var _ ports.Metrics = (*Recorder)(nil)
