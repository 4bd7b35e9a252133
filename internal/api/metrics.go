package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhisek/penilai/internal/rubric"
)

type metrics struct {
	registry *prometheus.Registry

	extractions *prometheus.CounterVec
	criteria    prometheus.Histogram
	grades      *prometheus.CounterVec
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "penilai",
			Name:      "rubric_extractions_total",
			Help:      "Rubric extractions by resulting scheme and extraction path.",
		}, []string{"scheme", "path"}),
		criteria: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "penilai",
			Name:      "rubric_criteria",
			Help:      "Criteria recovered per extraction.",
			Buckets:   []float64{0, 1, 2, 3, 4, 6, 8, 12, 20},
		}),
		grades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "penilai",
			Name:      "grades_total",
			Help:      "Final grades written, by scheme.",
		}, []string{"scheme"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "penilai",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "penilai",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	m.registry.MustRegister(
		m.extractions, m.criteria, m.grades, m.requests, m.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) observeExtraction(r rubric.Rubric, path string) {
	m.extractions.WithLabelValues(string(r.Scheme), path).Inc()
	m.criteria.Observe(float64(len(r.Criteria)))
}

func (m *metrics) observeGrades(scheme rubric.Scheme, n int) {
	m.grades.WithLabelValues(string(scheme)).Add(float64(n))
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// instrument records request counts and latency under the matched route
// pattern, so path parameters do not explode label cardinality.
func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.latency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
