// Package metrics exposes Prometheus collectors for gameplay and API traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prepsom/levelplay/internal/level"
)

// Metrics implements level.Recorder and api.Observer.
type Metrics struct {
	registry    *prometheus.Registry
	answers     *prometheus.CounterVec
	failures    *prometheus.CounterVec
	completions *prometheus.CounterVec
	requests    *prometheus.HistogramVec
	devGraded   *prometheus.CounterVec
}

var _ level.Recorder = (*Metrics)(nil)

// New registers all collectors on a fresh registry.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "prepsom"
	}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_submitted_total",
			Help:      "Answers accepted by the server, by question kind and correctness.",
		}, []string{"kind", "correct"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answer_submit_failures_total",
			Help:      "Answer submissions that failed and left the question unanswered.",
		}, []string{"kind"}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "level_completions_total",
			Help:      "Level completion attempts by outcome.",
		}, []string{"success"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "PrepSOM API request latency by route and outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "outcome"}),
		devGraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "devserver_graded_total",
			Help:      "Submissions graded by the development API stub.",
		}, []string{"kind", "correct"}),
	}
	m.registry.MustRegister(m.answers, m.failures, m.completions, m.requests, m.devGraded)
	return m
}

func (m *Metrics) AnswerSubmitted(kind level.Kind, correct bool) {
	m.answers.WithLabelValues(string(kind), strconv.FormatBool(correct)).Inc()
}

func (m *Metrics) AnswerFailed(kind level.Kind) {
	m.failures.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) LevelCompleted(success bool) {
	m.completions.WithLabelValues(strconv.FormatBool(success)).Inc()
}

func (m *Metrics) ObserveRequest(route, outcome string, d time.Duration) {
	m.requests.WithLabelValues(route, outcome).Observe(d.Seconds())
}

// Graded counts a submission graded by the dev server.
func (m *Metrics) Graded(kind level.Kind, correct bool) {
	m.devGraded.WithLabelValues(string(kind), strconv.FormatBool(correct)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests and custom collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
